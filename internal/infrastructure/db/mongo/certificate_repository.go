package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

const collectionCertificates = "certificate_requests"

type CertificateRepository struct {
	col *mongo.Collection
}

func NewCertificateRepository(db *mongo.Database) *CertificateRepository {
	return &CertificateRepository{col: db.Collection(collectionCertificates)}
}

// Create inserts a new request. A clash on control_number yields domain.ErrDuplicateNumber.
func (r *CertificateRepository) Create(ctx context.Context, req *domain.CertificateRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, req)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("insert certificate request: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid.Hex()
	}
	return nil
}

func (r *CertificateRepository) FindByControlNumber(ctx context.Context, controlNumber string) (*domain.CertificateRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var req domain.CertificateRequest
	err := r.col.FindOne(ctx, bson.M{"control_number": controlNumber}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("find certificate request: %w", err)
	}
	return &req, nil
}

// UpdateStatus sets the new status and appends the history entry in a single update.
func (r *CertificateRepository) UpdateStatus(ctx context.Context, u ports.StatusUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"status":         string(u.Status),
		"processed_by":   u.ProcessedBy,
		"processed_date": u.History.ChangedAt,
		"updated_at":     u.History.ChangedAt,
	}
	if u.Remarks != "" {
		set["remarks"] = u.Remarks
	}
	update := bson.M{
		"$set":  set,
		"$push": bson.M{"status_history": u.History},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"control_number": u.ControlNumber}, update)
	if err != nil {
		return fmt.Errorf("update certificate status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCertificateNotFound
	}
	return nil
}

// List returns one page of requests, newest first, plus the total match count.
func (r *CertificateRepository) List(ctx context.Context, f ports.ListCertificatesFilter) ([]*domain.CertificateRequest, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := certificateFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count certificate requests: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "requested_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find certificate requests: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]*domain.CertificateRequest, 0, f.Limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode certificate requests: %w", err)
	}
	return items, total, nil
}

func certificateFilter(f ports.ListCertificatesFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CertificateType != "" {
		filter["certificate_type"] = f.CertificateType
	}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"control_number": rx},
			bson.M{"requester.first_name": rx},
			bson.M{"requester.last_name": rx},
		}
	}
	return filter
}

// CountByStatus groups all requests by status.
func (r *CertificateRepository) CountByStatus(ctx context.Context) (map[domain.CertificateStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate certificate stats: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode certificate stats: %w", err)
	}

	out := make(map[domain.CertificateStatus]int64, len(rows))
	for _, row := range rows {
		out[domain.CertificateStatus(row.Status)] = row.Count
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the certificate_requests collection.
func (r *CertificateRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "control_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "requested_at", Value: -1}}},
		{Keys: bson.D{{Key: "certificate_type", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

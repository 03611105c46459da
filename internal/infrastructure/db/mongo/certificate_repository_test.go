package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

const certNS = "barangay.certificate_requests"

func certificateDoc(cn, status string) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "control_number", Value: cn},
		{Key: "certificate_type", Value: "Barangay Clearance"},
		{Key: "requester", Value: bson.D{
			{Key: "first_name", Value: "Juan"},
			{Key: "last_name", Value: "Dela Cruz"},
			{Key: "contact_number", Value: "09171234567"},
			{Key: "household_code", Value: "AB12"},
		}},
		{Key: "purpose", Value: "Employment"},
		{Key: "priority", Value: "normal"},
		{Key: "status", Value: status},
		{Key: "requested_at", Value: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)},
	}
}

func TestCertificateRepository_Create(t *testing.T) {
	mt := newMockT(t)

	mt.Run("success sets id", func(mt *mtest.T) {
		repo := NewCertificateRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		req := &domain.CertificateRequest{ControlNumber: "CERT-20240315-0001", Status: domain.StatusPending}
		if err := repo.Create(context.Background(), req); err != nil {
			t.Fatalf("create: %v", err)
		}
		if req.ID == "" {
			t.Error("expected id to be set")
		}
	})

	mt.Run("duplicate control number", func(mt *mtest.T) {
		repo := NewCertificateRepository(mt.DB)
		mt.AddMockResponses(duplicateKeyResponse())

		err := repo.Create(context.Background(), &domain.CertificateRequest{ControlNumber: "CERT-20240315-0001"})
		if !errors.Is(err, domain.ErrDuplicateNumber) {
			t.Fatalf("expected ErrDuplicateNumber, got %v", err)
		}
	})
}

func TestCertificateRepository_FindByControlNumber(t *testing.T) {
	mt := newMockT(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := NewCertificateRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, certNS, mtest.FirstBatch, certificateDoc("CERT-20240315-0001", "for_review")))

		req, err := repo.FindByControlNumber(context.Background(), "CERT-20240315-0001")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if req.Status != domain.StatusForReview || req.Requester.HouseholdCode != "AB12" {
			t.Errorf("unexpected request: %+v", req)
		}
		if req.ID == "" {
			t.Error("object id should decode as hex string")
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewCertificateRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, certNS, mtest.FirstBatch))

		if _, err := repo.FindByControlNumber(context.Background(), "CERT-X"); !errors.Is(err, domain.ErrCertificateNotFound) {
			t.Fatalf("expected ErrCertificateNotFound, got %v", err)
		}
	})
}

func TestCertificateRepository_UpdateStatus(t *testing.T) {
	mt := newMockT(t)
	update := ports.StatusUpdate{
		ControlNumber: "CERT-20240315-0001",
		Status:        domain.StatusApproved,
		ProcessedBy:   "staff-1",
		History:       domain.StatusHistoryEntry{Status: domain.StatusApproved, ChangedAt: time.Now().UTC()},
	}

	mt.Run("matched", func(mt *mtest.T) {
		repo := NewCertificateRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}})

		if err := repo.UpdateStatus(context.Background(), update); err != nil {
			t.Fatalf("update: %v", err)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewCertificateRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		if err := repo.UpdateStatus(context.Background(), update); !errors.Is(err, domain.ErrCertificateNotFound) {
			t.Fatalf("expected ErrCertificateNotFound, got %v", err)
		}
	})
}

func TestCertificateRepository_List(t *testing.T) {
	mt := newMockT(t)

	mt.Run("page", func(mt *mtest.T) {
		repo := NewCertificateRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, certNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(7)}}),
			mtest.CreateCursorResponse(0, certNS, mtest.FirstBatch,
				certificateDoc("CERT-20240315-0002", "pending"),
				certificateDoc("CERT-20240315-0001", "pending"),
			),
		)

		items, total, err := repo.List(context.Background(), ports.ListCertificatesFilter{Status: "pending", Page: 1, Limit: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != 7 || len(items) != 2 {
			t.Fatalf("unexpected result: total=%d items=%d", total, len(items))
		}
		if items[0].ControlNumber != "CERT-20240315-0002" {
			t.Errorf("order not preserved: %s", items[0].ControlNumber)
		}
	})
}

func TestCertificateFilter_SearchIsEscaped(t *testing.T) {
	f := certificateFilter(ports.ListCertificatesFilter{Search: "CERT-2024.03", Status: "pending"})

	if f["status"] != "pending" {
		t.Errorf("status filter missing: %v", f)
	}
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 3 {
		t.Fatalf("expected 3 $or clauses, got %v", f["$or"])
	}
	rx := or[0].(bson.M)["control_number"].(primitive.Regex)
	if rx.Pattern != `CERT-2024\.03` || rx.Options != "i" {
		t.Errorf("unexpected regex: %+v", rx)
	}
}

func TestCertificateRepository_CountByStatus(t *testing.T) {
	mt := newMockT(t)

	mt.Run("grouped", func(mt *mtest.T) {
		repo := NewCertificateRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, certNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "pending"}, {Key: "count", Value: int64(4)}},
			bson.D{{Key: "_id", Value: "released"}, {Key: "count", Value: int64(2)}},
		))

		counts, err := repo.CountByStatus(context.Background())
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if counts[domain.StatusPending] != 4 || counts[domain.StatusReleased] != 2 {
			t.Errorf("unexpected counts: %v", counts)
		}
	})
}

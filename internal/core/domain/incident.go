package domain

import (
	"fmt"
	"time"
)

// IncidentStatusReported is the status of a freshly filed incident.
const IncidentStatusReported = "reported"

// IncidentReport is a resident-filed blotter entry.
type IncidentReport struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	IncidentNumber string    `json:"incident_number" bson:"incident_number"`
	IncidentType   string    `json:"incident_type" bson:"incident_type"`
	Description    string    `json:"description" bson:"description"`
	Location       string    `json:"location" bson:"location"`
	IncidentDate   time.Time `json:"incident_date" bson:"incident_date"`
	Reporter       Requester `json:"reporter" bson:"reporter"`
	Status         string    `json:"status" bson:"status"`
	ReportedAt     time.Time `json:"reported_at" bson:"reported_at"`
}

// FormatIncidentNumber renders INC-YYYYMM-NNNN for a suffix in 0..9999.
func FormatIncidentNumber(month time.Time, suffix int) string {
	return fmt.Sprintf("INC-%s-%04d", month.Format("200601"), suffix%10000)
}

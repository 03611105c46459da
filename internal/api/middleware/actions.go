package middleware

import "github.com/barangay-connect/resident-services/internal/core/domain"

// PublicActions can be called on /api/staff-auth without a valid session.
var PublicActions = map[string]struct{}{
	"login":       {},
	"logout":      {},
	"validate":    {},
	"extend":      {},
	"get-session": {},
}

// ActionFeatures maps every protected action to the feature it requires.
var ActionFeatures = map[string]domain.FeatureKey{
	"get-certificate-requests":       domain.FeatureCertificates,
	"get-certificate-request":        domain.FeatureCertificates,
	"update-certificate-status":      domain.FeatureCertificates,
	"bulk-update-certificate-status": domain.FeatureCertificates,
	"get-dashboard-stats":            domain.FeatureDashboard,
	"get-incident-reports":           domain.FeatureIncidents,
	"get-audit-logs":                 domain.FeatureAuditLogs,
	"get-permissions":                domain.FeatureDashboard,
	"change-password":                domain.FeatureDashboard,
}

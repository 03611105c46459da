package domain

import (
	"fmt"
	"sort"
)

// FeatureKey identifies a gated section of the staff dashboard.
type FeatureKey string

const (
	FeatureDashboard       FeatureKey = "dashboard"
	FeatureCertificates    FeatureKey = "certificates"
	FeatureIncidents       FeatureKey = "incidents"
	FeatureResidents       FeatureKey = "residents"
	FeatureCensus          FeatureKey = "census"
	FeatureAnnouncements   FeatureKey = "announcements"
	FeatureMessages        FeatureKey = "messages"
	FeatureReports         FeatureKey = "reports"
	FeatureSKPrograms      FeatureKey = "sk_programs"
	FeatureAuditLogs       FeatureKey = "audit_logs"
	FeatureStaffManagement FeatureKey = "staff_management"
	FeatureSettings        FeatureKey = "settings"
)

// rolePermissions is the static role table. Every feature must be reachable
// by at least one role and admin must hold every sensitive feature.
var rolePermissions = map[FeatureKey][]Role{
	FeatureDashboard:       {RoleAdmin, RoleBarangayCaptain, RoleBarangayOfficial, RoleSecretary, RoleSKChairman},
	FeatureCertificates:    {RoleAdmin, RoleBarangayCaptain, RoleBarangayOfficial, RoleSecretary},
	FeatureIncidents:       {RoleAdmin, RoleBarangayCaptain, RoleBarangayOfficial, RoleSecretary},
	FeatureResidents:       {RoleAdmin, RoleBarangayCaptain, RoleBarangayOfficial, RoleSecretary},
	FeatureCensus:          {RoleAdmin, RoleBarangayCaptain, RoleSecretary},
	FeatureAnnouncements:   {RoleAdmin, RoleBarangayCaptain, RoleBarangayOfficial, RoleSecretary, RoleSKChairman},
	FeatureMessages:        {RoleAdmin, RoleBarangayCaptain, RoleBarangayOfficial, RoleSecretary, RoleSKChairman},
	FeatureReports:         {RoleAdmin, RoleBarangayCaptain, RoleSecretary},
	FeatureSKPrograms:      {RoleAdmin, RoleBarangayCaptain, RoleSKChairman},
	FeatureAuditLogs:       {RoleAdmin, RoleBarangayCaptain},
	FeatureStaffManagement: {RoleAdmin},
	FeatureSettings:        {RoleAdmin},
}

// SensitiveFeatures make up the admin section of the dashboard.
var SensitiveFeatures = []FeatureKey{FeatureStaffManagement, FeatureAuditLogs, FeatureSettings}

// Features returns every known feature key in a stable order.
func Features() []FeatureKey {
	out := make([]FeatureKey, 0, len(rolePermissions))
	for f := range rolePermissions {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseFeature converts untrusted input into a FeatureKey.
func ParseFeature(s string) (FeatureKey, error) {
	f := FeatureKey(s)
	if _, ok := rolePermissions[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFeature, s)
	}
	return f, nil
}

// HasPermission reports whether role may use feature. Unknown roles and
// unknown features are denied.
func HasPermission(role Role, feature FeatureKey) bool {
	for _, r := range rolePermissions[feature] {
		if r == role {
			return true
		}
	}
	return false
}

// PermittedFeatures returns the features available to role, sorted.
func PermittedFeatures(role Role) []FeatureKey {
	out := []FeatureKey{}
	for _, f := range Features() {
		if HasPermission(role, f) {
			out = append(out, f)
		}
	}
	return out
}

// CanAccessAdminSection reports whether role holds any sensitive feature.
func CanAccessAdminSection(role Role) bool {
	for _, f := range SensitiveFeatures {
		if HasPermission(role, f) {
			return true
		}
	}
	return false
}

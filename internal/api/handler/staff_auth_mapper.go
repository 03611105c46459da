package handler

import (
	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

// --- Service result → Response ---

func toCertificateListResponse(p *ports.CertificatePage) certificateListResponse {
	items := p.Items
	if items == nil {
		items = []*domain.CertificateRequest{}
	}
	return certificateListResponse{
		Items:      items,
		pagination: pagination{Total: p.Total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages},
	}
}

func toIncidentListResponse(p *ports.IncidentPage) incidentListResponse {
	items := p.Items
	if items == nil {
		items = []*domain.IncidentReport{}
	}
	return incidentListResponse{
		Items:      items,
		pagination: pagination{Total: p.Total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages},
	}
}

func toAuditLogListResponse(p *ports.AuditPage) auditLogListResponse {
	items := p.Items
	if items == nil {
		items = []*domain.AuditLogEntry{}
	}
	return auditLogListResponse{
		Items:      items,
		pagination: pagination{Total: p.Total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages},
	}
}

func toTrackingResponse(v *ports.TrackingView) trackingResponse {
	return trackingResponse{
		ControlNumber:   v.ControlNumber,
		CertificateType: v.CertificateType,
		Status:          v.Status,
		StatusLabel:     v.Status.Label(),
		RequestedAt:     v.RequestedAt,
		ProcessedDate:   v.ProcessedDate,
		Remarks:         v.Remarks,
	}
}

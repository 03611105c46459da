// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Barangay Resident Services API",
        "description": "Staff session, certificate request and incident report endpoints",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http", "https"],
    "tags": [
        {"name": "staff", "description": "Staff sessions and dashboard actions"},
        {"name": "public", "description": "Resident submissions and tracking"},
        {"name": "health", "description": "Health checks"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health/ready": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/api/staff-auth": {
            "post": {
                "tags": ["staff"],
                "summary": "Staff session and dashboard actions",
                "description": "Multiplexed by the action field. Public actions: login, logout, validate, extend, get-session. All other actions need a valid token and the role's feature permission.",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Action result"},
                    "400": {"description": "Validation error or unknown action", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Invalid credentials or session expired", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "403": {"description": "Forbidden or inactive account", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "422": {"description": "Invalid status transition", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "429": {"description": "Too many failed logins", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/public/certificate-requests": {
            "post": {
                "tags": ["public"],
                "summary": "Submit a certificate request",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitCertificateInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SubmitCertificateResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/public/certificate-requests/{control_number}": {
            "get": {
                "tags": ["public"],
                "summary": "Track a certificate request",
                "parameters": [
                    {"name": "control_number", "in": "path", "required": true, "type": "string"},
                    {"name": "X-Receipt", "in": "header", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TrackingResponse"}},
                    "403": {"description": "Missing or mismatched receipt", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/public/incident-reports": {
            "post": {
                "tags": ["public"],
                "summary": "Report an incident",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitIncidentInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SubmitIncidentResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ActionRequest": {
            "type": "object",
            "required": ["action"],
            "properties": {
                "action": {"type": "string", "example": "login"},
                "token": {"type": "string"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string", "example": "SESSION_INVALID"},
                "field": {"type": "string"}
            }
        },
        "SubmitCertificateInput": {
            "type": "object",
            "required": ["certificate_type", "first_name", "last_name", "contact_number", "household_code", "purpose"],
            "properties": {
                "certificate_type": {"type": "string", "example": "barangay_clearance"},
                "first_name": {"type": "string"},
                "middle_name": {"type": "string"},
                "last_name": {"type": "string"},
                "contact_number": {"type": "string", "example": "09171234567"},
                "email": {"type": "string"},
                "birth_date": {"type": "string", "format": "date-time"},
                "household_code": {"type": "string", "example": "H123"},
                "purpose": {"type": "string"},
                "priority": {"type": "string", "enum": ["normal", "urgent"]}
            }
        },
        "SubmitCertificateResponse": {
            "type": "object",
            "properties": {
                "control_number": {"type": "string", "example": "CERT-20240315-4821"},
                "status": {"type": "string", "example": "pending"},
                "requested_at": {"type": "string", "format": "date-time"},
                "receipt": {"type": "string"}
            }
        },
        "TrackingResponse": {
            "type": "object",
            "properties": {
                "control_number": {"type": "string"},
                "certificate_type": {"type": "string"},
                "status": {"type": "string"},
                "status_label": {"type": "string"},
                "requested_at": {"type": "string", "format": "date-time"},
                "processed_date": {"type": "string", "format": "date-time"},
                "remarks": {"type": "string"}
            }
        },
        "SubmitIncidentInput": {
            "type": "object",
            "required": ["incident_type", "description", "location", "incident_date", "first_name", "last_name", "contact_number", "household_code"],
            "properties": {
                "incident_type": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "incident_date": {"type": "string", "format": "date-time"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "contact_number": {"type": "string"},
                "household_code": {"type": "string"}
            }
        },
        "SubmitIncidentResponse": {
            "type": "object",
            "properties": {
                "incident_number": {"type": "string", "example": "INC-202403-0042"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

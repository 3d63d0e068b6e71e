package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "NDIS Ops API",
        "description": "Rostering, staff allocation and SCHADS payroll for NDIS providers",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session management"},
        {"name": "Staff", "description": "Support worker directory"},
        {"name": "Participants", "description": "Participant directory"},
        {"name": "Shifts", "description": "Shift roster"},
        {"name": "Allocation", "description": "Scoring and offer cascade"},
        {"name": "Attendance", "description": "Clock-in/out and geo-fence overrides"},
        {"name": "Payroll", "description": "SCHADS rates and pay previews"},
        {"name": "PayRuns", "description": "Pay run processing and bank files"},
        {"name": "Unavailability", "description": "Staff unavailability windows"},
        {"name": "Dashboard", "description": "Operations snapshot"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff": {
            "get": {
                "tags": ["Staff"],
                "summary": "List staff",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "employmentType", "in": "query", "type": "string", "enum": ["casual", "part_time", "full_time"]},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Staff"],
                "summary": "Create staff member",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Staff"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/{id}": {
            "get": {
                "tags": ["Staff"],
                "summary": "Get staff member",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Staff"],
                "summary": "Update staff member",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Staff"],
                "summary": "Deactivate staff member",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No content"}}
            }
        },
        "/participants": {
            "get": {
                "tags": ["Participants"],
                "summary": "List participants",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Participants"],
                "summary": "Create participant",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/shifts": {
            "get": {
                "tags": ["Shifts"],
                "summary": "List shifts",
                "parameters": [
                    {"name": "participantId", "in": "query", "type": "string"},
                    {"name": "staffId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["unallocated", "confirmed", "in_progress", "completed", "cancelled"]},
                    {"name": "dateFrom", "in": "query", "type": "string", "format": "date"},
                    {"name": "dateTo", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Shifts"],
                "summary": "Schedule a shift",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/shifts/{id}/allocate": {
            "post": {
                "tags": ["Allocation"],
                "summary": "Run staff allocation for a shift",
                "description": "Scores every available candidate and sends time-limited offers to the top five eligible staff",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Shift is not awaiting allocation"}
                }
            }
        },
        "/shifts/{id}/scores": {
            "get": {
                "tags": ["Allocation"],
                "summary": "Get stored allocation scores",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/offers/{id}/respond": {
            "post": {
                "tags": ["Allocation"],
                "summary": "Accept or decline an offer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OfferResponseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Offer closed or shift already filled"},
                    "410": {"description": "Offer expired"}
                }
            }
        },
        "/shifts/{id}/clock-in": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Clock in to a shift",
                "description": "A position outside the participant geo-fence flags the record for review but never blocks",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/shifts/{id}/clock-out": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Clock out of a shift",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payroll/calculate/{staffId}": {
            "post": {
                "tags": ["Payroll"],
                "summary": "Preview one staff member's pay",
                "parameters": [
                    {"name": "staffId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PayCalculationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No active award rate"}
                }
            }
        },
        "/award-rates": {
            "get": {
                "tags": ["Payroll"],
                "summary": "List award rates",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Payroll"],
                "summary": "Create award rate",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/payruns": {
            "get": {
                "tags": ["PayRuns"],
                "summary": "List recent pay runs",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["PayRuns"],
                "summary": "Run payroll for a period",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PayRunRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/payruns/{id}/export": {
            "post": {
                "tags": ["PayRuns"],
                "summary": "Export payslips as CSV or PDF",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "Signed download token"}}
            }
        },
        "/payruns/download": {
            "get": {
                "tags": ["PayRuns"],
                "summary": "Download a signed export",
                "parameters": [{"name": "token", "in": "query", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "File"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        },
        "/unavailability": {
            "post": {
                "tags": ["Unavailability"],
                "summary": "Submit an unavailability window",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Operations dashboard counts",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "Staff": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "employment_type": {"type": "string", "enum": ["casual", "part_time", "full_time"]},
                "award_level": {"type": "string"},
                "qualifications": {"type": "array", "items": {"type": "string"}},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "bsb": {"type": "string"},
                "account_number": {"type": "string"}
            },
            "required": ["first_name", "last_name", "email", "employment_type", "award_level"]
        },
        "PayCalculationRequest": {
            "type": "object",
            "properties": {
                "pay_period_start": {"type": "string", "format": "date-time"},
                "pay_period_end": {"type": "string", "format": "date-time"},
                "hours_breakdown": {"$ref": "#/definitions/HoursBreakdown"},
                "allowances": {"type": "object"}
            },
            "required": ["pay_period_start", "pay_period_end"]
        },
        "HoursBreakdown": {
            "type": "object",
            "properties": {
                "ordinary_hours": {"type": "number"},
                "overtime_hours": {"type": "number"},
                "weekend_hours": {"type": "number"},
                "public_holiday_hours": {"type": "number"},
                "evening_hours": {"type": "number"},
                "night_hours": {"type": "number"}
            }
        },
        "PayRunRequest": {
            "type": "object",
            "properties": {
                "period_start": {"type": "string", "format": "date-time"},
                "period_end": {"type": "string", "format": "date-time"},
                "pay_date": {"type": "string", "format": "date-time"}
            },
            "required": ["period_start", "period_end", "pay_date"]
        },
        "OfferResponseRequest": {
            "type": "object",
            "properties": {
                "accept": {"type": "boolean"},
                "decline_reason": {"type": "string"}
            },
            "required": ["accept"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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

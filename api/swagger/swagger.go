package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SAMSES API",
        "description": "State school administration API: schools, academic sessions, students, staff, finance, accreditation and report exports.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Authentication and account security"},
        {"name": "Users", "description": "Ministry and school accounts"},
        {"name": "Schools", "description": "School registry"},
        {"name": "Sessions", "description": "Academic sessions"},
        {"name": "Terms", "description": "Terms within sessions"},
        {"name": "Students", "description": "Student registry"},
        {"name": "Enrollments", "description": "Student enrollment"},
        {"name": "Subjects", "description": "Subject repository"},
        {"name": "Grading", "description": "Grading scales and boundaries"},
        {"name": "Infrastructure", "description": "School inventory reporting"},
        {"name": "Staff", "description": "School workforce"},
        {"name": "Finance", "description": "Fees, invoices, payments and expenses"},
        {"name": "Accreditation", "description": "Accreditation lifecycle"},
        {"name": "Suspensions", "description": "Suspensions and closures"},
        {"name": "Exports", "description": "Report exports"}
    ],
    "paths": {
        "/health": {
            "get": {"summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"summary": "Readiness check", "responses": {"200": {"description": "Ready"}, "503": {"description": "Degraded"}}}
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and issue tokens",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke a refresh token",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/password": {
            "put": {
                "tags": ["Auth"],
                "summary": "Change the current user's password",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current account profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/users": {
            "get": {"tags": ["Users"], "summary": "List accounts", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Users"], "summary": "Create an account", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/users/{id}": {
            "get": {"tags": ["Users"], "summary": "Get an account", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Users"], "summary": "Update an account", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Users"], "summary": "Deactivate an account", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/schools": {
            "get": {"tags": ["Schools"], "summary": "List schools", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Schools"], "summary": "Register a school", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/schools/{id}": {
            "get": {"tags": ["Schools"], "summary": "Get a school", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Schools"], "summary": "Update a school", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Schools"], "summary": "Delete a school", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/schools/{id}/detail": {
            "get": {"tags": ["Schools"], "summary": "School detail with governing session, accreditation and status", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/schools/{id}/logo": {
            "put": {"tags": ["Schools"], "summary": "Upload a school logo", "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "logo", "in": "formData", "required": true, "type": "file"}], "responses": {"200": {"description": "OK"}}}
        },
        "/schools/{id}/accreditation": {
            "get": {"tags": ["Accreditation"], "summary": "Latest accreditation state", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Accreditation"], "summary": "Append a new accreditation state", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}}}
        },
        "/schools/{id}/accreditation/history": {
            "get": {"tags": ["Accreditation"], "summary": "Full accreditation history", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/schools/{id}/infrastructure": {
            "get": {"tags": ["Infrastructure"], "summary": "List inventory records", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Infrastructure"], "summary": "Create or replace an inventory record by kind", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/schools/{id}/infrastructure/{kind}/images": {
            "get": {"tags": ["Infrastructure"], "summary": "List inventory images", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "kind", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Infrastructure"], "summary": "Attach an image", "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "kind", "in": "path", "required": true, "type": "string"}, {"name": "image", "in": "formData", "required": true, "type": "file"}], "responses": {"201": {"description": "Created"}}}
        },
        "/schools/{id}/staff": {
            "get": {"tags": ["Staff"], "summary": "List a school's staff", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Staff"], "summary": "Add a staff member", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}}}
        },
        "/schools/{id}/fees": {
            "get": {"tags": ["Finance"], "summary": "List fee structures", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Finance"], "summary": "Create a fee structure line", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}}}
        },
        "/schools/{id}/invoices": {
            "post": {"tags": ["Finance"], "summary": "Bill a student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}}}
        },
        "/schools/{id}/expense-categories": {
            "get": {"tags": ["Finance"], "summary": "List expense categories", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Finance"], "summary": "Create an expense category", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}}}
        },
        "/schools/{id}/expenses": {
            "get": {"tags": ["Finance"], "summary": "List expenses", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Finance"], "summary": "Record an expense", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}}}
        },
        "/schools/{id}/exports": {
            "get": {"tags": ["Exports"], "summary": "List recent export jobs", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Exports"], "summary": "Queue a report export", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"202": {"description": "Accepted"}}}
        },
        "/sessions": {
            "get": {"tags": ["Sessions"], "summary": "List academic sessions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Sessions"], "summary": "Create an academic session", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/sessions/{id}": {
            "get": {"tags": ["Sessions"], "summary": "Get an academic session", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Sessions"], "summary": "Update an academic session", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Sessions"], "summary": "Delete an academic session", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/sessions/{id}/terms": {
            "get": {"tags": ["Sessions"], "summary": "List a session's terms", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/sessions/complete-ongoing": {
            "post": {"tags": ["Sessions"], "summary": "Mark every ongoing session completed", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/terms": {
            "post": {"tags": ["Terms"], "summary": "Create a term inside a session", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/terms/{id}": {
            "get": {"tags": ["Terms"], "summary": "Get a term", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Terms"], "summary": "Update a term's dates", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Terms"], "summary": "Delete a term", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/students": {
            "get": {"tags": ["Students"], "summary": "List students", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Students"], "summary": "Register a student", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/students/{id}": {
            "get": {"tags": ["Students"], "summary": "Get a student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Students"], "summary": "Update a student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Students"], "summary": "Deactivate a student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/students/{id}/passport": {
            "put": {"tags": ["Students"], "summary": "Upload a passport photo", "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "passport", "in": "formData", "required": true, "type": "file"}], "responses": {"200": {"description": "OK"}}}
        },
        "/enrollments": {
            "get": {"tags": ["Enrollments"], "summary": "List enrollments", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Enrollments"], "summary": "Enroll a student", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/enrollments/{id}": {
            "delete": {"tags": ["Enrollments"], "summary": "Withdraw an enrollment", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/subjects": {
            "get": {"tags": ["Subjects"], "summary": "List subjects", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Subjects"], "summary": "Create a subject", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/subjects/{id}": {
            "get": {"tags": ["Subjects"], "summary": "Get a subject", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Subjects"], "summary": "Update a subject", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Subjects"], "summary": "Delete a subject", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/subjects/{id}/grading": {
            "get": {"tags": ["Grading"], "summary": "List a subject's grading configurations", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Grading"], "summary": "Attach a grading scale to a subject", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}}}
        },
        "/grading/scales": {
            "get": {"tags": ["Grading"], "summary": "List grading scales", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Grading"], "summary": "Create a grading scale", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/grading/scales/{id}": {
            "get": {"tags": ["Grading"], "summary": "Get a grading scale with boundaries", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Grading"], "summary": "Delete a grading scale", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/grading/scales/{id}/grade": {
            "get": {"tags": ["Grading"], "summary": "Resolve the grade for a score", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "score", "in": "query", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK"}}}
        },
        "/grading/scales/{id}/boundaries": {
            "post": {"tags": ["Grading"], "summary": "Add a grade boundary", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}}}
        },
        "/staff/{id}": {
            "get": {"tags": ["Staff"], "summary": "Get a staff member", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Staff"], "summary": "Update a staff member", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Staff"], "summary": "Deactivate a staff member", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/staff/{id}/salaries": {
            "get": {"tags": ["Staff"], "summary": "Salary history", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Staff"], "summary": "Record a salary payment", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}}}
        },
        "/invoices": {
            "get": {"tags": ["Finance"], "summary": "List invoices", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/invoices/{invoiceId}": {
            "get": {"tags": ["Finance"], "summary": "Get an invoice with its payments", "security": [{"BearerAuth": []}], "parameters": [{"name": "invoiceId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/invoices/{invoiceId}/payments": {
            "post": {"tags": ["Finance"], "summary": "Record a payment", "security": [{"BearerAuth": []}], "parameters": [{"name": "invoiceId", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}}}
        },
        "/suspensions": {
            "get": {"tags": ["Suspensions"], "summary": "List suspensions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Suspensions"], "summary": "Declare a suspension or closure", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/suspensions/{id}": {
            "put": {"tags": ["Suspensions"], "summary": "Amend a suspension or closure", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Suspensions"], "summary": "Lift a suspension or closure", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/exports/{id}": {
            "get": {"tags": ["Exports"], "summary": "Get an export job's status", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/exports/{id}/download-url": {
            "get": {"tags": ["Exports"], "summary": "Issue a signed download link", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/exports/download": {
            "get": {"tags": ["Exports"], "summary": "Download an export via a signed token", "parameters": [{"name": "token", "in": "query", "required": true, "type": "string"}], "responses": {"200": {"description": "File"}}}
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RefreshTokenRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {
                "refresh_token": {"type": "string"}
            }
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

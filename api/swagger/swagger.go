package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Progress API",
        "description": "Student roster with Codeforces data synchronization",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student roster and sync profile"},
        {"name": "Sync", "description": "Judge data synchronization"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/students": {
            "post": {
                "tags": ["Students"],
                "summary": "Register a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get a student with their sync profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/students/{id}/contests": {
            "get": {
                "tags": ["Students"],
                "summary": "List the student's synced contest history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/students/{id}/submissions": {
            "get": {
                "tags": ["Students"],
                "summary": "List the student's synced submissions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/students/{id}/handle": {
            "patch": {
                "tags": ["Students"],
                "summary": "Change the student's judge handle",
                "description": "Starts a background sync; the request never waits for it.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateHandleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/students/{id}/sync-settings": {
            "patch": {
                "tags": ["Students"],
                "summary": "Update sync frequency and notification preference",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSyncSettingsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/students/{id}/sync": {
            "post": {
                "tags": ["Sync"],
                "summary": "Sync one student's judge data now",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Sync already running"},
                    "422": {"description": "No judge handle linked"},
                    "502": {"description": "Judge platform unavailable"}
                }
            }
        },
        "/sync/run": {
            "post": {
                "tags": ["Sync"],
                "summary": "Run the scheduled sync batch now",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "cf_handle": {"type": "string"},
                "sync_frequency": {"type": "string", "enum": ["daily", "weekly", "biweekly"]},
                "last_sync_time": {"type": "string"},
                "last_submission_date": {"type": "string"},
                "email_notifications_enabled": {"type": "boolean"},
                "emails_sent_count": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "CreateStudentRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "cf_handle": {"type": "string"},
                "sync_frequency": {"type": "string", "enum": ["daily", "weekly", "biweekly"]}
            },
            "required": ["full_name", "email"]
        },
        "UpdateHandleRequest": {
            "type": "object",
            "properties": {
                "cf_handle": {"type": "string"}
            },
            "required": ["cf_handle"]
        },
        "UpdateSyncSettingsRequest": {
            "type": "object",
            "properties": {
                "sync_frequency": {"type": "string", "enum": ["daily", "weekly", "biweekly"]},
                "email_notifications_enabled": {"type": "boolean"}
            },
            "required": ["sync_frequency", "email_notifications_enabled"]
        },
        "SyncTriggerResponse": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "synced_at": {"type": "string"}
            }
        },
        "SyncBatchSummary": {
            "type": "object",
            "properties": {
                "ran_at": {"type": "string"},
                "weekday": {"type": "string"},
                "attempted": {"type": "integer"},
                "succeeded": {"type": "integer"},
                "failed": {"type": "integer"}
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

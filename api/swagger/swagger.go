package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Institutional timetable administration with recurring-schedule conflict detection",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and token lifecycle"},
        {"name": "Catalog", "description": "Groups, subjects, teachers and semesters"},
        {"name": "Lessons", "description": "Single lesson management"},
        {"name": "Schedules", "description": "Schedule assembly, validation, generation and export"},
        {"name": "News", "description": "Announcements"},
        {"name": "Notifications", "description": "Schedule change notifications"}
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
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "Token pair issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate refresh token",
                "responses": {
                    "200": {"description": "New token pair issued"},
                    "401": {"description": "Token expired or revoked"}
                }
            }
        },
        "/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "List lessons",
                "responses": {
                    "200": {"description": "Lesson list"}
                }
            },
            "post": {
                "tags": ["Lessons"],
                "summary": "Create lesson",
                "responses": {
                    "201": {"description": "Lesson created"},
                    "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/lessons/{id}": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Get lesson",
                "responses": {
                    "200": {"description": "Lesson"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Lessons"],
                "summary": "Update lesson",
                "responses": {
                    "200": {"description": "Lesson updated"},
                    "409": {"description": "Schedule conflict"}
                }
            },
            "delete": {
                "tags": ["Lessons"],
                "summary": "Delete lesson",
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/schedules/{groupId}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get a group's schedule for a semester",
                "responses": {
                    "200": {"description": "Schedule"}
                }
            }
        },
        "/schedules/{groupId}/validate": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Validate a group's schedule",
                "responses": {
                    "200": {"description": "Validation report"}
                }
            }
        },
        "/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate lessons from a day/slot pattern",
                "responses": {
                    "201": {"description": "Generation result"},
                    "409": {"description": "Schedule conflict"}
                }
            }
        },
        "/schedules/template": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Apply a source group's schedule to target groups",
                "responses": {
                    "200": {"description": "Per-target outcome"}
                }
            }
        },
        "/schedules/import": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Import lessons from an XLS workbook",
                "responses": {
                    "201": {"description": "Import result"}
                }
            }
        },
        "/news": {
            "get": {
                "tags": ["News"],
                "summary": "List news items",
                "responses": {
                    "200": {"description": "News list"}
                }
            },
            "post": {
                "tags": ["News"],
                "summary": "Create news item",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List notifications",
                "responses": {
                    "200": {"description": "Notification list"}
                }
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "LessonIssue": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["invalid_time", "room_conflict", "teacher_conflict"]},
                "message": {"type": "string"},
                "lesson_id": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "issues": {"type": "array", "items": {"$ref": "#/definitions/LessonIssue"}}
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

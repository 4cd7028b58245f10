package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academic Lifecycle API",
        "description": "Schedule conflict resolution and term transition engine",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Classes", "description": "Class sections and teaching units"},
        {"name": "Schedule", "description": "Weekly timetable with conflict detection"},
        {"name": "Transitions", "description": "Completeness audits and term transitions"}
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
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List class sections",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create a class section",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate class identity"}
                }
            }
        },
        "/classes/{id}/teaching-units": {
            "get": {
                "tags": ["Classes"],
                "summary": "List a class's teaching units",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Assign a subject and instructor to a class",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Subject already assigned"}
                }
            }
        },
        "/schedule-slots": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Propose a weekly schedule slot",
                "responses": {
                    "201": {"description": "Slot persisted"},
                    "400": {"description": "Malformed times or weekday"},
                    "409": {"description": "Duplicate subject, instructor or class conflict"}
                }
            }
        },
        "/schedule-slots/{id}": {
            "put": {
                "tags": ["Schedule"],
                "summary": "Revise an existing schedule slot",
                "responses": {
                    "200": {"description": "Slot updated"},
                    "409": {"description": "Conflict with committed timetable"}
                }
            },
            "delete": {
                "tags": ["Schedule"],
                "summary": "Delete a schedule slot",
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/classes/{id}/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List a class's weekly timetable",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/{id}/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List an instructor's weekly timetable",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}/audit": {
            "get": {
                "tags": ["Transitions"],
                "summary": "Run the completeness audit for a class",
                "responses": {
                    "200": {"description": "Term report"},
                    "404": {"description": "Class not found"}
                }
            }
        },
        "/transitions": {
            "post": {
                "tags": ["Transitions"],
                "summary": "Move a class cohort to the second term",
                "responses": {
                    "200": {"description": "Cohort migrated"},
                    "422": {"description": "Term sequence invalid or records incomplete"}
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
                "details": {"type": "object"},
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

package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Scheduler API",
        "description": "Adaptive timetable scheduling engine for campus course planning",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Scheduler", "description": "Timetable generation and evaluation"},
        {"name": "Tasks", "description": "Finished run retrieval and export"}
    ],
    "paths": {
        "/healthcheck": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/scheduler": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Generate a timetable",
                "description": "Runs the adaptive genetic search over the submitted problem until the time limit or convergence.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Validation failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scheduler/evaluate": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Evaluate an existing timetable",
                "description": "Scores a submitted schedule against the constraint set without running the search.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EvaluateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EvaluateResponse"}},
                    "422": {"description": "Validation failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scheduler/tasks/{id}": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Fetch a finished run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown or expired task"}
                }
            }
        },
        "/scheduler/tasks/{id}/export": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Export a finished run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "404": {"description": "Unknown or expired task"}
                }
            }
        }
    },
    "definitions": {
        "ScheduleRequest": {
            "type": "object",
            "properties": {
                "courses": {"type": "array", "items": {"type": "object"}},
                "teachers": {"type": "array", "items": {"type": "object"}},
                "classrooms": {"type": "array", "items": {"type": "object"}},
                "studentGroups": {"type": "array", "items": {"type": "object"}},
                "timeslots": {"type": "array", "items": {"type": "object"}},
                "constraints": {"type": "array", "items": {"type": "object"}},
                "timeLimit": {"type": "integer", "description": "Wall-clock budget in seconds"},
                "seed": {"type": "integer"}
            },
            "required": ["courses", "teachers", "classrooms", "studentGroups", "timeslots"]
        },
        "EvaluateRequest": {
            "type": "object",
            "properties": {
                "schedule": {"type": "array", "items": {"$ref": "#/definitions/ScheduledItem"}},
                "courses": {"type": "array", "items": {"type": "object"}},
                "teachers": {"type": "array", "items": {"type": "object"}},
                "classrooms": {"type": "array", "items": {"type": "object"}},
                "studentGroups": {"type": "array", "items": {"type": "object"}},
                "timeslots": {"type": "array", "items": {"type": "object"}},
                "constraints": {"type": "array", "items": {"type": "object"}}
            },
            "required": ["schedule", "courses", "teachers", "classrooms", "studentGroups", "timeslots"]
        },
        "ScheduledItem": {
            "type": "object",
            "properties": {
                "courseId": {"type": "string"},
                "sessionNumber": {"type": "integer"},
                "teacherId": {"type": "string"},
                "classroomId": {"type": "string"},
                "timeslotCode": {"type": "string"},
                "day": {"type": "string"}
            }
        },
        "EvaluateResponse": {
            "type": "object",
            "properties": {
                "summary": {"type": "object"},
                "violations": {"type": "array", "items": {"type": "string"}},
                "categories": {"type": "object"},
                "fitness_vector": {"type": "array", "items": {"type": "number"}}
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
                "status": {"type": "string"},
                "message": {"type": "string"},
                "data": {"type": "object"},
                "errors": {"type": "object"}
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

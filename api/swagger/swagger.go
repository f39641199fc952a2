package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Thesis Topic API",
        "description": "Thesis topic proposals, committee decisions and declarations",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Topics", "description": "Topic proposals and committee decisions"},
        {"name": "Declarations", "description": "Student and supervisor declarations"},
        {"name": "Users", "description": "Account picker"},
        {"name": "Export", "description": "Students grouped by topic"}
    ],
    "paths": {
        "/topics": {
            "get": {
                "tags": ["Topics"],
                "summary": "List topics",
                "parameters": [
                    {"name": "supervisor_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/TopicResponse"}}},
                    "400": {"description": "Invalid supervisor id", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "post": {
                "tags": ["Topics"],
                "summary": "Create topic",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTopicRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/TopicResponse"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/topics/pending": {
            "get": {
                "tags": ["Topics"],
                "summary": "List pending topics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/PendingTopicsResponse"}},
                    "500": {"description": "Failed to fetch pending topics", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/topics/supervisor/me": {
            "get": {
                "tags": ["Topics"],
                "summary": "Current supervisor",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Supervisor"}},
                    "404": {"description": "No teacher found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/topics/approve-bulk": {
            "patch": {
                "tags": ["Topics"],
                "summary": "Approve many topics",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkApproveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BulkApproveResponse"}},
                    "400": {"description": "No topics provided", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/topics/{id}": {
            "get": {
                "tags": ["Topics"],
                "summary": "Get topic",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TopicResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/topics/{id}/approve": {
            "patch": {
                "tags": ["Topics"],
                "summary": "Approve topic",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TopicActionResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/topics/{id}/reject": {
            "patch": {
                "tags": ["Topics"],
                "summary": "Reject topic",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RejectTopicRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TopicActionResponse"}},
                    "400": {"description": "Rejection reason is required", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/topics/{id}/declare": {
            "post": {
                "tags": ["Declarations"],
                "summary": "Declare participation in a topic",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/DeclareRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DeclarationResult"}},
                    "400": {"description": "Already submitted or invalid role", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Operation failed", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/UserSummary"}}}
                }
            }
        },
        "/export/students-by-topic": {
            "get": {
                "tags": ["Export"],
                "summary": "Export students grouped by topic",
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["xlsx", "csv", "pdf"], "default": "xlsx"}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Export failed", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "Supervisor": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "title": {"type": "string"},
                "avatar": {"type": "string"}
            }
        },
        "TeamMember": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "indexNumber": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"}
            }
        },
        "TopicResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "isOpen": {"type": "boolean"},
                "isStandard": {"type": "boolean"},
                "maxMembers": {"type": "integer"},
                "status": {"type": "string", "enum": ["PENDING", "APPROVED", "REJECTED"]},
                "creationDate": {"type": "string", "format": "date"},
                "topicJustification": {"type": "string"},
                "rejectionReason": {"type": "string"},
                "supervisor": {"$ref": "#/definitions/Supervisor"},
                "team": {"type": "array", "items": {"$ref": "#/definitions/TeamMember"}}
            }
        },
        "PendingTopic": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string"},
                "topic_justification": {"type": "string"},
                "creation_date": {"type": "string", "format": "date"},
                "teacher_title": {"type": "string"},
                "teacher_full_name": {"type": "string"},
                "student_count": {"type": "integer"}
            }
        },
        "PendingTopicsResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "topics": {"type": "array", "items": {"$ref": "#/definitions/PendingTopic"}}
            }
        },
        "TopicActionResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "topic": {"$ref": "#/definitions/TopicResponse"}
            }
        },
        "BulkApproveResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "CreateTopicRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "maxLength": 200},
                "description": {"type": "string"},
                "topicJustification": {"type": "string"},
                "isStandard": {"type": "boolean"},
                "maxMembers": {"type": "integer", "minimum": 1}
            },
            "required": ["title"]
        },
        "RejectTopicRequest": {
            "type": "object",
            "properties": {
                "rejection_reason": {"type": "string"}
            },
            "required": ["rejection_reason"]
        },
        "BulkApproveRequest": {
            "type": "object",
            "properties": {
                "topic_ids": {"type": "array", "items": {"type": "integer"}}
            },
            "required": ["topic_ids"]
        },
        "DeclareRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "integer"},
                "user_id": {"type": "integer"}
            }
        },
        "DeclarationResult": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "declaration_id": {"type": "integer"},
                "declaration_status": {"type": "string", "enum": ["IN_PREPARATION", "SUBMITTED"]},
                "submission_date": {"type": "string", "format": "date-time"},
                "topic_id": {"type": "integer"},
                "student_id": {"type": "integer"},
                "role": {"type": "string", "enum": ["student", "teacher"]}
            }
        },
        "UserSummary": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"},
                "name": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "code": {"type": "string"}
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

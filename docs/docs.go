// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/prompts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["submissions"],
                "summary": "List monthly prompts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.promptsResponse"}}
                }
            }
        },
        "/submissions": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["submissions"],
                "summary": "Submit this month's answers and photos",
                "parameters": [
                    {"type": "string", "description": "Authenticated user id", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Display name", "name": "X-User-Name", "in": "header"},
                    {"type": "string", "description": "Answer to prompt 0", "name": "answer_0", "in": "formData", "required": true},
                    {"type": "file", "description": "Photos in display order", "name": "photos", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Submission"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/newsletters/{month}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["newsletters"],
                "summary": "Compile a month's newsletter",
                "parameters": [
                    {"type": "string", "description": "Month key, e.g. June-2025", "name": "month", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/newsletter.Document"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/newsletters/{month}/export": {
            "get": {
                "produces": ["application/pdf", "text/html", "text/markdown"],
                "tags": ["newsletters"],
                "summary": "Export a month's newsletter",
                "parameters": [
                    {"type": "string", "description": "Month key, e.g. June-2025", "name": "month", "in": "path", "required": true},
                    {"type": "string", "description": "pdf (default), html or md", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "handler.promptItem": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "prompt": {"type": "string"}
            }
        },
        "handler.promptsResponse": {
            "type": "object",
            "properties": {
                "prompts": {"type": "array", "items": {"$ref": "#/definitions/handler.promptItem"}}
            }
        },
        "model.Submission": {
            "type": "object",
            "properties": {
                "answers": {"type": "object", "additionalProperties": {"type": "string"}},
                "author_id": {"type": "string"},
                "author_name": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "month_key": {"type": "string"},
                "photo_locators": {"type": "array", "items": {"type": "string"}}
            }
        },
        "newsletter.AnswerEntry": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "prompt": {"type": "string"}
            }
        },
        "newsletter.Article": {
            "type": "object",
            "properties": {
                "answers": {"type": "array", "items": {"$ref": "#/definitions/newsletter.AnswerEntry"}},
                "author_id": {"type": "string"},
                "author_name": {"type": "string"},
                "heading": {"type": "string"},
                "photos": {"type": "array", "items": {"$ref": "#/definitions/newsletter.Photo"}}
            }
        },
        "newsletter.Document": {
            "type": "object",
            "properties": {
                "articles": {"type": "array", "items": {"$ref": "#/definitions/newsletter.Article"}},
                "columns": {"type": "integer"},
                "display_month": {"type": "string"},
                "footer": {
                    "type": "object",
                    "properties": {
                        "attribution": {"type": "string"},
                        "copyright": {"type": "string"}
                    }
                },
                "header": {
                    "type": "object",
                    "properties": {
                        "subtitle": {"type": "string"},
                        "title": {"type": "string"}
                    }
                },
                "issue_label": {"type": "string"},
                "issue_number": {"type": "integer"},
                "month_key": {"type": "string"},
                "placeholder": {"type": "string"}
            }
        },
        "newsletter.Photo": {
            "type": "object",
            "properties": {
                "caption": {"type": "string"},
                "locator": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "The Forum Newsletter API",
	Description:      "Monthly submissions compiled into a shareable newsletter.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs holds the Swagger specification served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/upload/presign": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Mint a short-lived direct-to-storage upload URL",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/PresignRequest"}
                    }
                ],
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/PresignResponse"}},
                    "400": {"schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/upload/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Record a finished upload and dispatch ingestion",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CompleteRequest"}
                    }
                ],
                "responses": {
                    "201": {"schema": {"$ref": "#/definitions/File"}},
                    "400": {"schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/files": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "summary": "List the caller's files, newest first",
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/FileList"}},
                    "401": {"schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/files/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "summary": "Fetch one of the caller's files",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/File"}},
                    "400": {"schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/files/{id}/download": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "summary": "Mint a short-lived download URL for a file",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/DownloadResponse"}},
                    "400": {"schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Readiness check including database connectivity",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "PresignRequest": {
            "type": "object",
            "required": ["filename"],
            "properties": {
                "filename": {"type": "string"},
                "mime_type": {"type": "string"}
            }
        },
        "PresignResponse": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "upload_url": {"type": "string"},
                "expires_in": {"type": "integer"}
            }
        },
        "CompleteRequest": {
            "type": "object",
            "required": ["path", "filename"],
            "properties": {
                "path": {"type": "string"},
                "filename": {"type": "string"},
                "mime_type": {"type": "string"},
                "size": {"type": "integer"}
            }
        },
        "File": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "owner_id": {"type": "string"},
                "storage_key": {"type": "string"},
                "filename": {"type": "string"},
                "mime_type": {"type": "string"},
                "size": {"type": "integer"},
                "status": {"type": "string", "enum": ["uploaded", "processing", "done", "failed"]},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "FileList": {
            "type": "object",
            "properties": {
                "files": {"type": "array", "items": {"$ref": "#/definitions/File"}}
            }
        },
        "DownloadResponse": {
            "type": "object",
            "properties": {
                "url": {"type": "string"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"}
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "FileHub API",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registers the OpenAPI description of the HTTP routes served by
// the handlers package. Regenerate with `swag init -g cmd/main.go` after
// changing handler annotations.
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
        "/": {
            "get": {
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Login page",
                "responses": {
                    "200": {"description": "OK"},
                    "302": {"description": "already logged in, redirect to /dashboard"}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"type": "string", "description": "Email", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "session cookie set, redirect to /dashboard"}
                }
            }
        },
        "/register": {
            "get": {
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Registration page",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/register_user": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["auth"],
                "summary": "Register an account",
                "parameters": [
                    {"type": "string", "description": "Email", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "Password confirmation", "name": "password_confirm", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "redirect to / on success, /register on failure"}
                }
            }
        },
        "/logout": {
            "get": {
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {
                    "302": {"description": "session cookie cleared, redirect to /"}
                }
            }
        },
        "/dashboard": {
            "get": {
                "description": "Lists all items newest first, optionally filtered by status.",
                "produces": ["text/html"],
                "tags": ["items"],
                "summary": "Dashboard",
                "parameters": [
                    {"type": "string", "description": "all | lost | found", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "302": {"description": "not logged in, redirect to /"}
                }
            }
        },
        "/search": {
            "get": {
                "description": "Case-insensitive substring match on title or description. An empty query returns nothing.",
                "produces": ["text/html"],
                "tags": ["items"],
                "summary": "Search items",
                "parameters": [
                    {"type": "string", "description": "Search text", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/item/create": {
            "get": {
                "produces": ["text/html"],
                "tags": ["items"],
                "summary": "New item form",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "tags": ["items"],
                "summary": "Create item",
                "parameters": [
                    {"type": "string", "description": "Title", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "description": "Description", "name": "description", "in": "formData"},
                    {"type": "string", "description": "lost | found", "name": "status", "in": "formData"},
                    {"type": "file", "description": "png, jpg, jpeg or gif", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "302": {"description": "redirect to /dashboard"},
                    "413": {"description": "request body too large"}
                }
            }
        },
        "/item/{id}": {
            "get": {
                "produces": ["text/html"],
                "tags": ["items"],
                "summary": "View item",
                "parameters": [
                    {"type": "integer", "description": "Item ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/item/{id}/edit": {
            "get": {
                "produces": ["text/html"],
                "tags": ["items"],
                "summary": "Edit item form",
                "parameters": [
                    {"type": "integer", "description": "Item ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "post": {
                "description": "Overwrites title, description and status. A new image replaces the old one.",
                "consumes": ["multipart/form-data"],
                "tags": ["items"],
                "summary": "Update item",
                "parameters": [
                    {"type": "integer", "description": "Item ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Title", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "description": "Description", "name": "description", "in": "formData"},
                    {"type": "string", "description": "lost | found", "name": "status", "in": "formData"},
                    {"type": "file", "description": "png, jpg, jpeg or gif", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "302": {"description": "redirect to /item/{id}"},
                    "404": {"description": "Not Found"},
                    "413": {"description": "request body too large"}
                }
            }
        },
        "/item/{id}/delete": {
            "post": {
                "tags": ["items"],
                "summary": "Delete item",
                "parameters": [
                    {"type": "integer", "description": "Item ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "302": {"description": "redirect to /dashboard"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/uploads/{filename}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["uploads"],
                "summary": "Uploaded image",
                "parameters": [
                    {"type": "string", "description": "Stored file name", "name": "filename", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {"type": "string"}
                        }
                    }
                }
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
	Title:            "Campus Lost & Found",
	Description:      "Server-rendered bulletin board for lost and found items on campus.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

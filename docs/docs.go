// Package docs holds the Swagger description of the todo API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Server is running"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Storage is reachable"},
                    "503": {"description": "Storage is not reachable"}
                }
            }
        },
        "/api/todos": {
            "get": {
                "tags": ["Todos"],
                "summary": "List todos",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "All todos in insertion order",
                        "schema": {"$ref": "#/definitions/TodoListResponse"}
                    }
                }
            },
            "post": {
                "tags": ["Todos"],
                "summary": "Create a todo",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "todo",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateTodoRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/TodoResponse"}
                    },
                    "400": {
                        "description": "Empty title or bad date",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    }
                }
            }
        },
        "/api/todos/{id}": {
            "put": {
                "tags": ["Todos"],
                "summary": "Update a todo",
                "description": "Only the fields present in the body are changed. A non-boolean completed value is ignored.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {
                        "in": "body",
                        "name": "todo",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateTodoRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/TodoResponse"}},
                    "400": {"description": "Invalid field", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Unknown id", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Todos"],
                "summary": "Delete a todo",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "The removed todo", "schema": {"$ref": "#/definitions/TodoResponse"}},
                    "404": {"description": "Unknown id", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/todos/{id}/toggle": {
            "post": {
                "tags": ["Todos"],
                "summary": "Toggle completion",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Toggled", "schema": {"$ref": "#/definitions/TodoResponse"}},
                    "404": {"description": "Unknown id", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "Todo": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "3f1c2a9e-5b7d-4e0f-9a61-0c2d8e4b7f10"},
                "title": {"type": "string", "example": "Buy milk"},
                "dueAt": {"type": "string", "x-nullable": true, "example": "2024-05-01T10:00:00Z"},
                "completed": {"type": "boolean"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "CreateTodoRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "example": "Buy milk"},
                "dueAt": {"type": "string", "x-nullable": true}
            }
        },
        "UpdateTodoRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "dueAt": {"type": "string", "x-nullable": true},
                "completed": {"type": "boolean"}
            }
        },
        "TodoResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Todo"}
            }
        },
        "TodoListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Todo"}}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "todo not found"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Todo API",
	Description:      "Create, list, update, toggle and delete todos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

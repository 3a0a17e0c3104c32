// Package docs registers the OpenAPI description served by gin-swagger.
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
        "/departments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List departments",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/semesters/{department}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List semesters of a department",
                "parameters": [
                    {"type": "string", "description": "Department", "name": "department", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/years/{department}/{semester}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List years of a semester",
                "parameters": [
                    {"type": "string", "description": "Department", "name": "department", "in": "path", "required": true},
                    {"type": "string", "description": "Semester", "name": "semester", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/papers/{department}/{semester}/{year}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List papers",
                "parameters": [
                    {"type": "string", "description": "Department", "name": "department", "in": "path", "required": true},
                    {"type": "string", "description": "Semester", "name": "semester", "in": "path", "required": true},
                    {"type": "string", "description": "Year", "name": "year", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PaperSummary"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/user": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/purchase": {
            "post": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Purchase a paper",
                "parameters": [
                    {"description": "Paper to buy", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.PurchaseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PurchaseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/create-invoice": {
            "post": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Create invoice link",
                "parameters": [
                    {"description": "Amount of stars", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateInvoiceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CreateInvoiceResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/purchase-history": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Purchase history",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.HistoryItem"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Profile statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/request-paper/{paper_id}": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Check paper access",
                "parameters": [
                    {"type": "integer", "description": "Paper ID", "name": "paper_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AccessResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/admin/users/{id}/stars": {
            "post": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Credit stars",
                "parameters": [
                    {"type": "integer", "description": "Telegram user ID", "name": "id", "in": "path", "required": true},
                    {"description": "Amount", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreditRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Account"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string", "example": "Unauthorized"}}
        },
        "models.PaperSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 17},
                "paper_name": {"type": "string", "example": "Operating Systems"},
                "price": {"type": "integer", "example": 10}
            }
        },
        "models.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 123456789},
                "first_name": {"type": "string", "example": "John"},
                "stars": {"type": "integer", "example": 25}
            }
        },
        "models.PurchaseRequest": {
            "type": "object",
            "properties": {"paperId": {"type": "integer", "example": 17}}
        },
        "models.PurchaseResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "requiresPayment": {"type": "boolean"},
                "requiredStars": {"type": "integer"}
            }
        },
        "models.CreateInvoiceRequest": {
            "type": "object",
            "properties": {"amount": {"type": "number", "example": 50}}
        },
        "models.CreateInvoiceResponse": {
            "type": "object",
            "properties": {"invoiceUrl": {"type": "string", "example": "https://t.me/your_bot?start=pay_50_123456789"}}
        },
        "models.HistoryItem": {
            "type": "object",
            "properties": {
                "paper_id": {"type": "integer"},
                "paper_name": {"type": "string"},
                "department": {"type": "string"},
                "semester": {"type": "string"},
                "year": {"type": "string"},
                "purchase_date": {"type": "string", "format": "date-time"}
            }
        },
        "models.Profile": {
            "type": "object",
            "properties": {
                "total_papers": {"type": "integer"},
                "total_spent": {"type": "integer"},
                "department_stats": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "models.AccessResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "models.CreditRequest": {
            "type": "object",
            "required": ["amount"],
            "properties": {"amount": {"type": "integer", "example": 50}}
        },
        "models.Account": {
            "type": "object",
            "properties": {
                "telegram_id": {"type": "integer"},
                "stars": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        }
    },
    "securityDefinitions": {
        "TelegramInitData": {
            "description": "Telegram Mini App init data, JSON map or raw query string",
            "type": "apiKey",
            "name": "X-Telegram-Init-Data",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Papers Store API",
	Description:      "Backend for a Telegram Mini App selling question papers for stars.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

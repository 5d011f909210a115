// Package docs registers the OpenAPI description served at /swagger/.
// It mirrors the swag annotations on the handlers; regenerate with
//
//	swag init -g cmd/bff/main.go -o docs
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "invalid credentials", "schema": {"type": "string"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/bff/web/v1/accounts/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["bff-web"],
                "summary": "Account summary for the web client",
                "parameters": [
                    {"type": "integer", "description": "Account ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Summary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Account": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "accountId": {"type": "integer"},
                "ownerName": {"type": "string"},
                "balance": {"type": "number"},
                "ownerAge": {"type": "integer"},
                "accountType": {"type": "string"},
                "appliedInterest": {"type": "number"}
            }
        },
        "domain.Transaction": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "accountId": {"type": "integer"},
                "date": {"type": "string", "format": "date"},
                "kind": {"type": "string"},
                "amount": {"type": "number"},
                "description": {"type": "string"}
            }
        },
        "domain.Summary": {
            "type": "object",
            "properties": {
                "statusMessage": {"type": "string"},
                "queryTimestamp": {"type": "string", "format": "date-time"},
                "account": {"$ref": "#/definitions/domain.Account"},
                "transactions": {"type": "array", "items": {"$ref": "#/definitions/domain.Transaction"}}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        },
        "handler.errorBody": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "maxLength": 128},
                "username": {"type": "string", "maxLength": 128}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Finance BFF (web)",
	Description:      "Backend-for-frontend for the web client: JWT login and account summaries.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registers the OpenAPI description served on /swagger.
// Regenerate with `swag init -g cmd/main.go`.
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
            "get": {"tags": ["system"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/auth/sign-up": {
            "post": {"tags": ["auth"], "summary": "Register an operator", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/auth/sign-in": {
            "post": {"tags": ["auth"], "summary": "Obtain a bearer token", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/config": {
            "get": {"tags": ["config"], "summary": "Active configuration", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Config"}}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["config"], "summary": "Replace configuration",
                "description": "Validates and stores the configuration, then restarts the poll timer with the new interval.",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ConfigRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Config"}},
                    "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/v1/snapshot": {
            "get": {"tags": ["dashboard"], "summary": "Latest snapshot", "produces": ["application/json"],
                "parameters": [{"in": "header", "name": "If-None-Match", "type": "string", "description": "ETag of a previously received snapshot"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/models.Reading"}}},
                    "304": {"description": "not modified"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/v1/history": {
            "get": {"tags": ["dashboard"], "summary": "Boiler temperature history", "produces": ["application/json"],
                "responses": {"200": {"description": "count, points"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/v1/logs": {
            "get": {"tags": ["logs"], "summary": "List log entries", "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "level", "type": "string", "enum": ["info", "success", "error"]},
                    {"in": "query", "name": "limit", "type": "integer"}],
                "responses": {"200": {"description": "count, entries"}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["logs"], "summary": "Clear the log",
                "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/v1/refresh": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Poll now", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"},
                    "502": {"description": "controller unreachable or returned an error"}, "503": {"description": "Service Unavailable"}}}
        },
        "/ws": {
            "get": {"tags": ["dashboard"], "summary": "Live snapshot feed", "responses": {"101": {"description": "Switching Protocols"}}}
        }
    },
    "definitions": {
        "handlers.authCredentials": {
            "type": "object", "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handlers.ConfigRequest": {
            "type": "object", "required": ["base_url", "poll_interval_seconds", "variables"],
            "properties": {
                "base_url": {"type": "string", "example": "https://pellets.bravokilo.cloud"},
                "poll_interval_seconds": {"type": "integer", "example": 60},
                "use_mock": {"type": "boolean", "example": true},
                "variables": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "models.Config": {
            "type": "object",
            "properties": {
                "base_url": {"type": "string"},
                "poll_interval_seconds": {"type": "integer"},
                "use_mock": {"type": "boolean"},
                "variables": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "models.Reading": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "display_name": {"type": "string"},
                "raw_value": {"type": "string"},
                "unit": {"type": "string"},
                "formatted_value": {"type": "string"},
                "captured_at_ms": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Heating Monitor API",
	Description:      "Polls a pellet boiler controller and serves the cached readings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

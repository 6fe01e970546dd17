// Package docs registers the swagger document of the insight breakdown API.
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
        "/insights/{id}/breakdown": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Breakdowns"],
                "summary": "Get the breakdown filter of an insight",
                "parameters": [
                    {"type": "string", "description": "Insight ID (uuid)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/fiber.BreakdownFilterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}
                }
            }
        },
        "/insights/{id}/breakdowns": {
            "post": {
                "description": "Adds a breakdown picked from a taxonomic group. Adding an existing breakdown is a no-op (changed=false).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Breakdowns"],
                "summary": "Add a breakdown",
                "parameters": [
                    {"type": "string", "description": "Insight ID (uuid)", "name": "id", "in": "path", "required": true},
                    {"description": "Breakdown selection", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/fiber.AddBreakdownRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/fiber.BreakdownFilterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}
                }
            },
            "put": {
                "description": "Replaces a breakdown in place. A replacement duplicating another breakdown is a no-op (changed=false).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Breakdowns"],
                "summary": "Replace a breakdown",
                "parameters": [
                    {"type": "string", "description": "Insight ID (uuid)", "name": "id", "in": "path", "required": true},
                    {"description": "Breakdown to replace and its replacement", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/fiber.ReplaceBreakdownRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/fiber.BreakdownFilterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}
                }
            },
            "delete": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Breakdowns"],
                "summary": "Remove a breakdown",
                "parameters": [
                    {"type": "string", "description": "Insight ID (uuid)", "name": "id", "in": "path", "required": true},
                    {"description": "Breakdown to remove", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/fiber.BreakdownKeyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/fiber.BreakdownFilterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "fiber.TaxonomicGroupRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "event_properties"},
                "group_type_index": {"type": "integer", "example": 0}
            }
        },
        "fiber.AddBreakdownRequest": {
            "type": "object",
            "properties": {
                "group": {"$ref": "#/definitions/fiber.TaxonomicGroupRequest"},
                "value": {"type": "string", "example": "$browser"}
            }
        },
        "fiber.BreakdownKeyRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "event"},
                "value": {"type": "string", "example": "$browser"}
            }
        },
        "fiber.ReplaceBreakdownRequest": {
            "type": "object",
            "properties": {
                "old": {"$ref": "#/definitions/fiber.BreakdownKeyRequest"},
                "new": {"$ref": "#/definitions/fiber.AddBreakdownRequest"}
            }
        },
        "fiber.BreakdownFilterResponse": {
            "type": "object",
            "properties": {
                "changed": {"type": "boolean"},
                "breakdown_filter": {"type": "object"}
            }
        },
        "fiber.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid_breakdown"},
                "message": {"type": "string", "example": "unsupported taxonomic group type"}
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
	Title:            "Insight Breakdown Service API",
	Description:      "Manages the breakdown configuration of analytics insights.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs is generated by swag init; keep in sync with the handler
// annotations under internal/handler.
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
        "/api/auctions/{key}": {
            "get": {
                "tags": ["auctions"],
                "summary": "Auction document with derived pricing",
                "parameters": [
                    {"type": "string", "name": "key", "in": "path", "required": true, "description": "auction id or slug"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/auctions/{key}/live": {
            "get": {
                "tags": ["auctions"],
                "summary": "Live auction event stream",
                "description": "Server-sent events: JSON snapshots once per second plus comment heartbeats.",
                "produces": ["text/event-stream"],
                "parameters": [
                    {"type": "string", "name": "key", "in": "path", "required": true, "description": "auction id or slug"},
                    {"type": "string", "name": "wallet", "in": "query", "description": "viewer wallet address for presence"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/auctions/{key}/messages": {
            "get": {
                "tags": ["chat"],
                "summary": "Chat messages in chronological order",
                "parameters": [
                    {"type": "string", "name": "key", "in": "path", "required": true, "description": "auction id or slug"},
                    {"type": "integer", "name": "limit", "in": "query", "description": "page size (max 50)"},
                    {"type": "string", "name": "before", "in": "query", "description": "createdAt cursor of the oldest message already seen (RFC3339)"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["chat"],
                "summary": "Post a chat message",
                "parameters": [
                    {"type": "string", "name": "key", "in": "path", "required": true, "description": "auction id or slug"},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"content": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/auctions/{key}/chat/ws": {
            "get": {
                "tags": ["chat"],
                "summary": "Websocket chat feed",
                "parameters": [
                    {"type": "string", "name": "key", "in": "path", "required": true, "description": "auction id or slug"}
                ],
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/readyz": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Flaunt Auction Core API",
	Description:      "Dutch auction pricing, live broadcast, presence, and chat.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

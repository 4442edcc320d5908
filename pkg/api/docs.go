package api

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
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/stats": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["diagnostics"],
                "summary": "Store statistics",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/vehicles": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "List vehicles",
                "parameters": [
                    {"type": "string", "description": "car, motorcycle, truck or all", "name": "kind", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/vehicle.Vehicle"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "Register a vehicle",
                "parameters": [
                    {"description": "Vehicle", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.VehicleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.CreateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/vehicles/{plate}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "Get a vehicle",
                "parameters": [{"type": "string", "description": "Plate", "name": "plate", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/vehicle.Vehicle"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "Replace a vehicle",
                "parameters": [
                    {"type": "string", "description": "Plate", "name": "plate", "in": "path", "required": true},
                    {"description": "Vehicle", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.VehicleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/vehicle.Vehicle"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "Delete a vehicle",
                "parameters": [{"type": "string", "description": "Plate", "name": "plate", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/snapshot/save": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["snapshot"],
                "summary": "Save a snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.SnapshotResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/snapshot/load": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["snapshot"],
                "summary": "Load a snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.SnapshotResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"},
                "field": {"type": "string"}
            }
        },
        "api.VehicleRequest": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "plate": {"type": "string"},
                "make": {"type": "string"},
                "model": {"type": "string"},
                "weight": {"type": "number"},
                "style": {"type": "string"},
                "engine_displacement": {"type": "number"},
                "cargo_capacity": {"type": "number"}
            }
        },
        "api.CreateResponse": {
            "type": "object",
            "properties": {
                "result": {"type": "string"},
                "vehicle": {"$ref": "#/definitions/vehicle.Vehicle"}
            }
        },
        "api.SnapshotResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "records": {"type": "integer"},
                "bytes": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "vehicle.Vehicle": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["car", "motorcycle", "truck"]},
                "plate": {"type": "string"},
                "make": {"type": "string"},
                "model": {"type": "string"},
                "weight": {"type": "number"},
                "style": {"type": "string"},
                "engine_displacement": {"type": "number"},
                "cargo_capacity": {"type": "number"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "fleetdb REST API",
	Description:      "REST API for fleetdb, a vehicle registry with binary snapshots.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

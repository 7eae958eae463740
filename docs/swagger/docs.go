// Package swagger holds the OpenAPI document of the section-mirror HTTP API,
// registered with swag and served by the serve command under /swagger.
package swagger

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
        "/integrity": {
            "get": {
                "description": "Runs the schema, storage and mirror checks and reports them together.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Run All Integrity Checks",
                "responses": {
                    "200": {
                        "description": "Combined Report",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/integrity/mirror": {
            "get": {
                "description": "Compares the mirrored sections with the database rows. Optionally refreshes the mirror.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Mirror",
                "parameters": [
                    {"type": "boolean", "description": "Refresh the mirror on drift", "name": "fix", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "Mirror Report",
                        "schema": {"type": "object", "additionalProperties": true}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/integrity/schema": {
            "get": {
                "description": "Compares the inventory tables with the gorm models and lists missing columns.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Schema",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/checks.SchemaReport"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/integrity/storage": {
            "get": {
                "description": "Verifies that the configured bucket exists.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Storage",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/checks.StorageReport"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/inventory/import": {
            "post": {
                "description": "Adds every item of a seed document in one change batch.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Import Items",
                "parameters": [
                    {"description": "Seed document", "name": "seed", "in": "body", "required": true, "schema": {"$ref": "#/definitions/inventory.Seed"}}
                ],
                "responses": {
                    "201": {
                        "description": "Imported count",
                        "schema": {"type": "object", "additionalProperties": {"type": "integer"}}
                    },
                    "400": {
                        "description": "Invalid seed",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/inventory/items": {
            "post": {
                "description": "Creates one item and delivers the resulting change batch to the mirror.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Add Item",
                "parameters": [
                    {"description": "Item", "name": "item", "in": "body", "required": true, "schema": {"$ref": "#/definitions/inventory.SeedItem"}}
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/models.Item"}
                    },
                    "400": {
                        "description": "Invalid item",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Delete All Items",
                "responses": {
                    "200": {
                        "description": "Deleted count",
                        "schema": {"type": "object", "additionalProperties": {"type": "integer"}}
                    }
                }
            }
        },
        "/inventory/items/{uuid}": {
            "patch": {
                "description": "Changes the name, count or type of one item.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Update Item",
                "parameters": [
                    {"type": "string", "description": "Item UUID", "name": "uuid", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "patch", "in": "body", "required": true, "schema": {"$ref": "#/definitions/inventory.ItemPatch"}}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/models.Item"}
                    },
                    "400": {
                        "description": "Invalid patch",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            },
            "delete": {
                "tags": ["inventory"],
                "summary": "Delete Item",
                "parameters": [
                    {"type": "string", "description": "Item UUID", "name": "uuid", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "404": {
                        "description": "Unknown item",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/inventory/journal": {
            "get": {
                "description": "Returns the section and item notifications applied to the mirror after the given sequence number.",
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Notification Journal",
                "parameters": [
                    {"type": "integer", "description": "Sequence number to read after", "name": "since", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "Journal entries",
                        "schema": {"type": "object", "additionalProperties": true}
                    },
                    "400": {
                        "description": "Invalid since",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/inventory/refresh": {
            "post": {
                "description": "Refetches the store and delivers changes made by other writers as one batch.",
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Refresh Mirror",
                "responses": {
                    "200": {
                        "description": "Delivered change count",
                        "schema": {"type": "object", "additionalProperties": {"type": "integer"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/inventory/sections": {
            "get": {
                "description": "Returns the mirrored sections of the store in order, each with its items.",
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "List Sections",
                "responses": {
                    "200": {
                        "description": "Store and sections",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/inventory/snapshots": {
            "post": {
                "description": "Writes the current mirror as JSON to the storage bucket. Concurrent exports share one upload.",
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Export Snapshot",
                "responses": {
                    "201": {
                        "description": "Object name",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "503": {
                        "description": "Storage not configured",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/inventory/types/{itemType}": {
            "delete": {
                "description": "Removes every item of the type, which deletes its section.",
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Delete Items By Type",
                "parameters": [
                    {"type": "string", "description": "Item type", "name": "itemType", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "Deleted count",
                        "schema": {"type": "object", "additionalProperties": {"type": "integer"}}
                    }
                }
            }
        }
    },
    "definitions": {
        "checks.SchemaReport": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"type": "string"}},
                "matched": {"type": "boolean"},
                "tables": {"type": "object", "additionalProperties": {"$ref": "#/definitions/checks.TableReport"}}
            }
        },
        "checks.StorageReport": {
            "type": "object",
            "properties": {
                "bucket": {"type": "string"},
                "exists": {"type": "boolean"}
            }
        },
        "checks.TableReport": {
            "type": "object",
            "properties": {
                "missing_columns": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string"}
            }
        },
        "inventory.ItemPatch": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "item_type": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "inventory.Seed": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/inventory.SeedItem"}},
                "store": {"$ref": "#/definitions/inventory.SeedStore"}
            }
        },
        "inventory.SeedItem": {
            "type": "object",
            "properties": {
                "count": {},
                "itemType": {"type": "string"},
                "name": {"type": "string"},
                "uuid": {"type": "string"}
            }
        },
        "inventory.SeedStore": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/inventory.SeedItem"}},
                "name": {"type": "string"},
                "uuid": {"type": "string"}
            }
        },
        "models.Item": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "item_type": {"type": "string"},
                "name": {"type": "string"},
                "uuid": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Section Mirror API",
	Description:      "Observable, sectioned mirror of a store's items with its change journal and health checks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Fee API",
        "description": "Fee ledger and billing engine",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Finance", "description": "Derived student fee ledgers"},
        {"name": "Fees", "description": "Fee categories and class fee structures"},
        {"name": "Discounts", "description": "Discount categories and student assignments"},
        {"name": "Payments", "description": "Payment collection and receipts"},
        {"name": "Settings", "description": "Global fee settings"},
        {"name": "Dashboard", "description": "Fleet-wide financial snapshot"},
        {"name": "Reports", "description": "Asynchronous financial report exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/finance/students/{id}/ledger": {
            "get": {
                "tags": ["Finance"],
                "summary": "Twelve-month fee ledger for a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "academicYear", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/students/{id}/fee-profile": {
            "get": {
                "tags": ["Finance"],
                "summary": "Resolved fee profile for a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "academicYear", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/students/{id}/discounts": {
            "get": {
                "tags": ["Discounts"],
                "summary": "List a student's discount assignments",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/fee-categories": {
            "get": {
                "tags": ["Fees"],
                "summary": "List fee categories",
                "parameters": [
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Fees"],
                "summary": "Create fee category",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFeeCategoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/fee-categories/{id}": {
            "get": {
                "tags": ["Fees"],
                "summary": "Get fee category",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Fees"],
                "summary": "Update fee category",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateFeeCategoryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/fee-structures": {
            "get": {
                "tags": ["Fees"],
                "summary": "List fee structures",
                "parameters": [
                    {"name": "classId", "in": "query", "type": "string"},
                    {"name": "feeCategoryId", "in": "query", "type": "string"},
                    {"name": "academicYear", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Fees"],
                "summary": "Create fee structure",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFeeStructureRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate structure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/fee-structures/{id}": {
            "put": {
                "tags": ["Fees"],
                "summary": "Update fee structure amount",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateFeeStructureRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/finance/discount-categories": {
            "get": {
                "tags": ["Discounts"],
                "summary": "List discount categories",
                "parameters": [
                    {"name": "applicationType", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Discounts"],
                "summary": "Create discount category",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDiscountCategoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/discount-categories/{id}": {
            "put": {
                "tags": ["Discounts"],
                "summary": "Update discount category",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDiscountCategoryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/discount-assignments": {
            "post": {
                "tags": ["Discounts"],
                "summary": "Assign discount to student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignDiscountRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/discount-assignments/{id}": {
            "patch": {
                "tags": ["Discounts"],
                "summary": "Activate or deactivate assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleAssignmentRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/finance/settings": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get global fee settings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Update global fee settings",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSettingsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/payments": {
            "get": {
                "tags": ["Payments"],
                "summary": "List payments",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "academicYear", "in": "query", "type": "string"},
                    {"name": "feeMonth", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Payments"],
                "summary": "Record a fee payment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CollectPaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate receipt number", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/receipts/{receiptNumber}": {
            "get": {
                "tags": ["Payments"],
                "summary": "Get receipt",
                "parameters": [
                    {"name": "receiptNumber", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/receipts/{receiptNumber}/pdf": {
            "get": {
                "tags": ["Payments"],
                "summary": "Download receipt PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "receiptNumber", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/finance/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Fleet-wide financial snapshot",
                "parameters": [
                    {"name": "academicYear", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a financial report export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/finance/reports/export/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished report export",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
        "CreateFeeCategoryRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"}
            },
            "required": ["name"]
        },
        "UpdateFeeCategoryRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "is_active": {"type": "boolean"}
            },
            "required": ["name"]
        },
        "CreateFeeStructureRequest": {
            "type": "object",
            "properties": {
                "class_id": {"type": "string"},
                "fee_category_id": {"type": "string"},
                "academic_year": {"type": "string"},
                "amount": {"type": "string"}
            },
            "required": ["class_id", "fee_category_id", "academic_year", "amount"]
        },
        "UpdateFeeStructureRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"}
            },
            "required": ["amount"]
        },
        "CreateDiscountCategoryRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["FLAT", "PERCENTAGE"]},
                "value": {"type": "string"},
                "application_type": {"type": "string", "enum": ["MANUAL", "AUTO"]},
                "logic_reference": {"type": "string"}
            },
            "required": ["name", "type", "value", "application_type"]
        },
        "UpdateDiscountCategoryRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["FLAT", "PERCENTAGE"]},
                "value": {"type": "string"},
                "application_type": {"type": "string", "enum": ["MANUAL", "AUTO"]},
                "logic_reference": {"type": "string"},
                "is_active": {"type": "boolean"}
            },
            "required": ["name", "type", "value", "application_type"]
        },
        "AssignDiscountRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "discount_category_id": {"type": "string"}
            },
            "required": ["student_id", "discount_category_id"]
        },
        "ToggleAssignmentRequest": {
            "type": "object",
            "properties": {
                "is_active": {"type": "boolean"}
            }
        },
        "UpdateSettingsRequest": {
            "type": "object",
            "properties": {
                "fee_due_day": {"type": "integer", "minimum": 1, "maximum": 28},
                "late_fee_per_day": {"type": "string"}
            },
            "required": ["fee_due_day", "late_fee_per_day"]
        },
        "CollectPaymentRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "fee_months": {"type": "array", "items": {"type": "string"}},
                "amount_paid": {"type": "string"},
                "payment_method": {"type": "string", "enum": ["CASH", "CARD", "ONLINE", "CHEQUE"]},
                "academic_year": {"type": "string"},
                "remarks": {"type": "string"}
            },
            "required": ["student_id", "fee_months", "amount_paid", "payment_method", "academic_year"]
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["statement", "collections"]},
                "academic_year": {"type": "string"},
                "student_id": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["type", "academic_year", "format"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

// Package docs auth-stub 的 Swagger 描述，与 stub.Handler 上的 swag 注释保持一致。
// 修改接口时同步更新 docTemplate。
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
        "/api/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "登录",
                "parameters": [
                    {"description": "邮箱与密码", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.SignInRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.SignInResult"}},
                    "400": {"description": "请求参数错误", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "401": {"description": "邮箱或密码错误", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/auth/send-otp": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "发送验证码",
                "parameters": [
                    {"description": "邮箱", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.SendOTPRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Message"}},
                    "400": {"description": "请求参数错误", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "429": {"description": "发送过于频繁", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/auth/verify-otp": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "校验验证码",
                "parameters": [
                    {"description": "邮箱与 6 位验证码", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.VerifyOTPRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Message"}},
                    "401": {"description": "验证码错误或过期", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "创建账号",
                "parameters": [
                    {"description": "注册信息", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.SignUpRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Message"}},
                    "403": {"description": "邮箱未验证", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "409": {"description": "邮箱已注册", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/expense/recent/{user_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expense"],
                "summary": "最近支出",
                "parameters": [
                    {"type": "string", "description": "用户 ID (UUID)", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/stub.Expense"}}},
                    "401": {"description": "token 无效", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/expense/monthly/{user_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expense"],
                "summary": "近六个月支出",
                "parameters": [
                    {"type": "string", "description": "用户 ID (UUID)", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/stub.MonthlyTotal"}}}
                }
            }
        },
        "/api/expense/categories/{user_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expense"],
                "summary": "按分类汇总",
                "parameters": [
                    {"type": "string", "description": "用户 ID (UUID)", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/stub.CategoryTotal"}}}
                }
            }
        }
    },
    "definitions": {
        "auth.SignInRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "user@example.com"},
                "password": {"type": "string", "example": "secret1"}
            }
        },
        "auth.SendOTPRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string", "example": "user@example.com"}
            }
        },
        "auth.VerifyOTPRequest": {
            "type": "object",
            "required": ["email", "otp"],
            "properties": {
                "email": {"type": "string", "example": "user@example.com"},
                "otp": {"type": "string", "example": "123456"}
            }
        },
        "auth.SignUpRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string", "example": "user@example.com"},
                "name": {"type": "string", "minLength": 2, "example": "Al"},
                "password": {"type": "string", "minLength": 6, "example": "secret1"},
                "phone_number": {"type": "string", "example": "+1 555 000 0000"}
            }
        },
        "auth.SignInUser": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"}
            }
        },
        "auth.SignInResult": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/auth.SignInUser"}
            }
        },
        "response.Message": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "response.ErrorBody": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}},
                "message": {"type": "string"},
                "trace_id": {"type": "string"}
            }
        },
        "stub.Expense": {
            "type": "object",
            "properties": {
                "amount": {"type": "number", "example": 42.5},
                "category": {"type": "string"},
                "date": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"}
            }
        },
        "stub.MonthlyTotal": {
            "type": "object",
            "properties": {
                "expenses": {"type": "number"},
                "name": {"type": "string"}
            }
        },
        "stub.CategoryTotal": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "value": {"type": "number"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo 运行时可改写 Host 等字段
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ExpenseTracker auth-stub API",
	Description:      "本地开发用的认证与账单桩服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

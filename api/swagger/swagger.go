package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutorhub Sandbox API",
        "description": "Local backend for the tutoring school attendance client",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Sign in"},
        {"name": "Directory", "description": "Student and teacher profiles"},
        {"name": "Sessions", "description": "Class sessions by date"},
        {"name": "Attendance", "description": "Check-in and confirmation"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Liveness probe with a metrics summary",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by name or email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/student/{id}": {
            "get": {
                "tags": ["Directory"],
                "summary": "Get a student profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Profile"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/student/{id}/attendances": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List a student's attendance rows",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentAttendancesResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/teacher/{id}": {
            "get": {
                "tags": ["Directory"],
                "summary": "Get a teacher profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Profile"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/attendance/change-attendance-status": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Check a student or teacher in",
                "description": "Exactly one of student_id and teacher_id is sent. 404 when the subject has no row for the session.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeAttendanceStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StatusChangeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/attendance/change-confirmation-status": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Confirm or cancel a scheduled session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeConfirmationStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StatusChangeResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Session is today", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/classSessions/filter": {
            "post": {
                "tags": ["Sessions"],
                "summary": "List class sessions on a date",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SessionFilterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionFilterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/classSession/{id}/attendances": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List the students of a class session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RosterResponse"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["nameOrEmail", "password"],
            "properties": {
                "nameOrEmail": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ProfileRef": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "teacher", "admin"]},
                "student": {"$ref": "#/definitions/ProfileRef"},
                "teacher": {"$ref": "#/definitions/ProfileRef"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/User"},
                "firstLogin": {"type": "boolean"}
            }
        },
        "Profile": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "Course": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "TeacherSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "full_name": {"type": "string"}
            }
        },
        "ClassSession": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "date": {"type": "string", "format": "date"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "location": {"type": "string"},
                "course_id": {"type": "integer"},
                "teacher_id": {"type": "integer"},
                "course": {"$ref": "#/definitions/Course"},
                "teacher": {"$ref": "#/definitions/TeacherSummary"}
            }
        },
        "AttendanceRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "class_session_id": {"type": "integer"},
                "student_id": {"type": "integer"},
                "teacher_id": {"type": "integer"},
                "status": {"type": "string", "enum": ["", "present", "absent"]},
                "confirmation_status": {"type": "string", "enum": ["pending", "confirmed", "cancelled"]},
                "class_session": {"$ref": "#/definitions/ClassSession"}
            }
        },
        "ChangeAttendanceStatusRequest": {
            "type": "object",
            "required": ["class_session_id", "status"],
            "properties": {
                "class_session_id": {"type": "integer"},
                "status": {"type": "string", "enum": ["present", "absent"]},
                "student_id": {"type": "integer"},
                "teacher_id": {"type": "integer"}
            }
        },
        "ChangeConfirmationStatusRequest": {
            "type": "object",
            "required": ["class_session_id", "student_id", "status"],
            "properties": {
                "class_session_id": {"type": "integer"},
                "student_id": {"type": "integer"},
                "status": {"type": "string", "enum": ["confirmed", "cancelled"]}
            }
        },
        "StatusChangeResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "attendance": {"$ref": "#/definitions/AttendanceRecord"}
            }
        },
        "StudentAttendancesResponse": {
            "type": "object",
            "properties": {
                "attendances": {"type": "array", "items": {"$ref": "#/definitions/AttendanceRecord"}}
            }
        },
        "SessionFilterRequest": {
            "type": "object",
            "required": ["date"],
            "properties": {
                "date": {"type": "string", "format": "date"}
            }
        },
        "SessionFilterResponse": {
            "type": "object",
            "properties": {
                "original": {
                    "type": "object",
                    "properties": {
                        "data": {"type": "array", "items": {"$ref": "#/definitions/ClassSession"}}
                    }
                }
            }
        },
        "RosterEntry": {
            "type": "object",
            "properties": {
                "attendance_id": {"type": "integer"},
                "student_id": {"type": "integer"},
                "full_name": {"type": "string"},
                "status": {"type": "string"},
                "confirmation_status": {"type": "string"}
            }
        },
        "RosterResponse": {
            "type": "object",
            "properties": {
                "original": {"type": "array", "items": {"$ref": "#/definitions/RosterEntry"}}
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
        "ErrorBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "error": {"$ref": "#/definitions/APIError"}
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

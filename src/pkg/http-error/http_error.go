package httpError

import "github.com/gofiber/fiber/v2"

// ErrorObject is the single error shape every usecase returns. Business-rule
// rejections carry a caller-facing Message; infrastructure faults keep the
// generic one.
type ErrorObject struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *ErrorObject) Error() string {
	return e.Message
}

func NewBadRequest() *ErrorObject {
	return &ErrorObject{
		Code:    fiber.StatusBadRequest,
		Status:  "BAD_REQUEST",
		Message: "bad request",
	}
}

func NewNotFound() *ErrorObject {
	return &ErrorObject{
		Code:    fiber.StatusNotFound,
		Status:  "NOT_FOUND",
		Message: "not found",
	}
}

func NewForbidden() *ErrorObject {
	return &ErrorObject{
		Code:    fiber.StatusForbidden,
		Status:  "FORBIDDEN",
		Message: "forbidden",
	}
}

func NewConflict() *ErrorObject {
	return &ErrorObject{
		Code:    fiber.StatusConflict,
		Status:  "CONFLICT",
		Message: "conflict",
	}
}

func NewInternalServerError() *ErrorObject {
	return &ErrorObject{
		Code:    fiber.StatusInternalServerError,
		Status:  "INTERNAL_SERVER_ERROR",
		Message: "internal server error",
	}
}

package utils

import (
	httpError "lpg-marketplace/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

// Result is the uniform return shape of every usecase operation: either Data is
// set or Error holds an httpError.ErrorObject.
type Result struct {
	Data  interface{}
	Error error
}

type baseResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
}

func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(baseResponse{
		Success: true,
		Message: message,
		Code:    code,
		Data:    data,
	})
}

func ResponseError(err error, ctx *fiber.Ctx) error {
	if errObj, ok := err.(*httpError.ErrorObject); ok {
		return ctx.Status(errObj.Code).JSON(baseResponse{
			Success: false,
			Message: errObj.Message,
			Code:    errObj.Code,
		})
	}
	return ctx.Status(fiber.StatusBadRequest).JSON(baseResponse{
		Success: false,
		Message: err.Error(),
		Code:    fiber.StatusBadRequest,
	})
}

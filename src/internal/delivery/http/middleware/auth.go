package middleware

import (
	"strings"

	"lpg-marketplace/src/pkg/token"
	"lpg-marketplace/src/pkg/utils"

	httpError "lpg-marketplace/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

const userLocalKey = "auth-user"

// VerifyBearer validates the identity provider's bearer token and stashes the
// claim for controllers. Every order-mutating route sits behind it.
func VerifyBearer(config *viper.Viper) fiber.Handler {
	secret := config.GetString("jwt.secret")
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			errObj := httpError.NewForbidden()
			errObj.Message = "missing bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		claim, err := token.Parse(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			errObj := httpError.NewForbidden()
			errObj.Message = "invalid bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		ctx.Locals(userLocalKey, claim)
		return ctx.Next()
	}
}

// GetUser returns the claim VerifyBearer stored for this request.
func GetUser(ctx *fiber.Ctx) *token.Claim {
	claim, _ := ctx.Locals(userLocalKey).(*token.Claim)
	if claim == nil {
		return &token.Claim{}
	}
	return claim
}

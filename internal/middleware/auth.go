package middleware

import (
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/dto"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenHeader carries the bearer token, without any scheme prefix.
const TokenHeader = "x-auth-token"

const tokenContextKey = "jwt"

// AuthRequired rejects requests without a valid token and attaches the
// token's identity to the request for downstream handlers.
func AuthRequired(tokens *services.TokenService) fiber.Handler {
	verify := jwtware.New(jwtware.Config{
		TokenLookup: "header:" + TokenHeader,
		KeyFunc:     tokens.Keyfunc,
		Claims:      &services.TokenClaims{},
		ContextKey:  tokenContextKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(tokenContextKey).(*jwt.Token)
			if !ok {
				return invalidToken(c, "claims")
			}
			// The gate's parser is lenient; Verify also requires exp and
			// canonical base64url segments.
			identity, err := tokens.Verify(token.Raw)
			if err != nil {
				slog.Warn("token rejected", "path", c.Path(), "error", err)
				return invalidToken(c, "strict")
			}
			c.Locals(identityKey, identity)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Warn("token rejected", "path", c.Path(), "error", err)
			return invalidToken(c, "verify")
		},
	})

	return func(c *fiber.Ctx) error {
		if strings.TrimSpace(c.Get(TokenHeader)) == "" {
			metrics.AuthFailures.WithLabelValues("missing").Inc()
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Msg: "No token! Auth Denied!"})
		}
		return verify(c)
	}
}

func invalidToken(c *fiber.Ctx, reason string) error {
	metrics.AuthFailures.WithLabelValues(reason).Inc()
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Msg: "Invalid Token!"})
}

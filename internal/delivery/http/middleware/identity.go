package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	HeaderUserID = "X-User-ID"
	CtxUserIDKey = "user_id"
)

// IdentityMiddleware trusts the caller identity forwarded by the gateway in
// the X-User-ID header.
type IdentityMiddleware struct{}

func NewIdentityMiddleware() *IdentityMiddleware {
	return &IdentityMiddleware{}
}

func (m *IdentityMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get(HeaderUserID))
		if raw == "" {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			return NewAppError(fiber.StatusUnauthorized, "Invalid user id", nil, err)
		}

		c.Locals(CtxUserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the identity stored by IdentityMiddleware.
func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	return id, ok
}

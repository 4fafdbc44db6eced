package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// AccessLogMiddleware logs one line per request and tags it with a request
// id, minted here when the client did not send one.
type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
			c.Set("X-Request-ID", rid)
		}

		err := c.Next()

		m.logger.Printf(
			"[HTTP] rid=%s method=%s path=%s status=%d latency=%s ip=%s ua=%q",
			rid, c.Method(), c.OriginalURL(), c.Response().StatusCode(),
			time.Since(start), c.IP(), c.Get("User-Agent"),
		)

		return err
	}
}

package middleware

import (
	"sync"

	"rental-marketplace-backend/token"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimiter throttles per client IP using a token bucket. Quotation
// and reservation endpoints attract scripted retries when stock is
// contested; shedding them here keeps the per-product locks uncontended.
func RateLimiter(requestsPerSecond float64, burst int) fiber.Handler {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *fiber.Ctx) error {
		ip := c.IP()

		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests",
				"error":   "Rate limit exceeded, slow down",
			})
		}
		return c.Next()
	}
}

// UserFromLocals returns the verified token payload set by
// ProtectedRoute, or nil on unauthenticated routes.
func UserFromLocals(c *fiber.Ctx) *token.Payload {
	payload, _ := c.Locals("user").(*token.Payload)
	return payload
}

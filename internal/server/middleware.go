package server

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

// Middleware wraps a route group with additional behavior.
type Middleware = fiber.Handler

// RequestLogger logs each request at debug level, and failures at warn.
func RequestLogger(logger *log.Logger) Middleware {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		kv := []any{"method", c.Method(), "path", c.Path(), "status", status, "elapsed", time.Since(start)}
		if status >= fiber.StatusBadRequest {
			logger.Warn("request", kv...)
		} else {
			logger.Debug("request", kv...)
		}
		return err
	}
}

// RequireBearer rejects requests whose Authorization header does not carry token.
// An empty token disables the check.
func RequireBearer(token string) Middleware {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Next()
		}

		scheme, got, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || !equal(got, token) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or missing bearer token")
		}
		return c.Next()
	}
}

// RequireAppID rejects requests whose appid query parameter does not match key.
// An empty key disables the check.
func RequireAppID(key string) Middleware {
	return func(c *fiber.Ctx) error {
		if key == "" {
			return c.Next()
		}
		if !equal(c.Query("appid"), key) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid API key")
		}
		return c.Next()
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

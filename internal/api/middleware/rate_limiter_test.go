package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedApp(rl *RateLimiter) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(testLogger()),
	})
	app.Use(rl.Handler())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	return app
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within burst", func(t *testing.T) {
		rl := NewRateLimiter(RateLimiterConfig{
			Rate:         0.001,
			Burst:        5,
			KeyGenerator: func(c *fiber.Ctx) string { return "kiosk-1" },
		})
		defer rl.Stop()
		app := rateLimitedApp(rl)

		for i := 0; i < 5; i++ {
			resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, "OK", string(body))
		}
	})

	t.Run("blocks requests over burst", func(t *testing.T) {
		rl := NewRateLimiter(RateLimiterConfig{
			Rate:         0.001,
			Burst:        2,
			KeyGenerator: func(c *fiber.Ctx) string { return "kiosk-1" },
		})
		defer rl.Stop()
		app := rateLimitedApp(rl)

		for i := 0; i < 2; i++ {
			resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
			assert.Equal(t, 200, resp.StatusCode)
		}

		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, 429, resp.StatusCode)
		assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, resp.Header.Get("Retry-After"))

		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("separate keys have separate buckets", func(t *testing.T) {
		var current string
		rl := NewRateLimiter(RateLimiterConfig{
			Rate:         0.001,
			Burst:        2,
			KeyGenerator: func(c *fiber.Ctx) string { return current },
		})
		defer rl.Stop()
		app := rateLimitedApp(rl)

		current = "kiosk-a"
		for i := 0; i < 2; i++ {
			resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
			assert.Equal(t, 200, resp.StatusCode)
		}
		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, 429, resp.StatusCode)

		current = "kiosk-b"
		resp, _ = app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("rate limit headers are set", func(t *testing.T) {
		rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 10})
		defer rl.Stop()
		app := rateLimitedApp(rl)

		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, "10", resp.Header.Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", resp.Header.Get("X-RateLimit-Remaining"))
	})
}

func TestDefaultRateLimiterConfig(t *testing.T) {
	config := DefaultRateLimiterConfig()

	assert.Equal(t, 5.0, config.Rate)
	assert.Equal(t, 10, config.Burst)
	assert.Equal(t, 10*time.Minute, config.IdleTTL)
	assert.NotNil(t, config.KeyGenerator)
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{IdleTTL: time.Minute})
	defer rl.Stop()

	rl.get("a")
	rl.get("b")
	require.Equal(t, 2, rl.size())

	rl.evictIdle(time.Now())
	assert.Equal(t, 2, rl.size())

	rl.evictIdle(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, rl.size())
}

func TestRateLimiter_Stop(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())

	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

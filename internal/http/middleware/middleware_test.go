package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(RequestIDLocalKey).(string))
	})

	t.Run("generates an id when absent", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)

		rid := resp.Header.Get(RequestIDHeader)
		_, perr := uuid.Parse(rid)
		assert.NoError(t, perr)
		assert.Equal(t, rid, readBody(t, resp))
	})

	t.Run("echoes a caller supplied id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "submit.2025-06_abc")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, "submit.2025-06_abc", resp.Header.Get(RequestIDHeader))
		assert.Equal(t, "submit.2025-06_abc", readBody(t, resp))
	})
}

func TestRequestID_RejectsUnsafeIDs(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFromCtx(c))
	})

	for _, bad := range []string{"has space", "line\nbreak", strings.Repeat("a", 129), "ünïcode"} {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, bad)
		resp, _ := app.Test(req)

		got := resp.Header.Get(RequestIDHeader)
		assert.NotEqual(t, bad, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err, "expected generated uuid for %q", bad)
	}
}

func TestIdentity(t *testing.T) {
	app := fiber.New()
	app.Use(Identity())

	app.Get("/me", func(c *fiber.Ctx) error {
		id := IdentityFromCtx(c)
		if id == nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(id.ID + "|" + id.DisplayName)
	})

	t.Run("headers become identity", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set(UserIDHeader, " u-42 ")
		req.Header.Set(UserNameHeader, "Ana")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "u-42|Ana", readBody(t, resp))
	})

	t.Run("missing user id leaves request anonymous", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set(UserNameHeader, "Ana")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		userID    string
		wantLevel string
	}{
		{"success logs at info", fiber.StatusAccepted, "", "info"},
		{"client error logs at warn with user", fiber.StatusUnprocessableEntity, "u-7", "warn"},
		{"server error logs at error", fiber.StatusBadGateway, "u-8", "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			app := fiber.New()
			app.Use(RequestID())
			app.Use(Identity())
			app.Use(LoggerWithWriter(&buf, time.UTC))
			app.Post("/submissions", func(c *fiber.Ctx) error {
				return c.SendStatus(tt.status)
			})

			req := httptest.NewRequest("POST", "/submissions", nil)
			if tt.userID != "" {
				req.Header.Set(UserIDHeader, tt.userID)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, resp.Header.Get(RequestIDHeader), entry["request_id"])
			assert.Equal(t, "POST", entry["method"])
			assert.Equal(t, "/submissions", entry["path"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.NotNil(t, entry["latency"])
			assert.NotEmpty(t, entry["ts"])
			if tt.userID != "" {
				assert.Equal(t, tt.userID, entry["user_id"])
			} else {
				assert.NotContains(t, entry, "user_id")
			}
		})
	}
}

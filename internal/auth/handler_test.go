package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *Service) {
	svc, _ := newTestService(t)
	handler := NewHandler(svc, newTestLogger(t))
	middleware := NewMiddleware(newTestConfig())

	app := fiber.New()
	RegisterRoutes(app, handler, middleware)

	return app, svc
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}, headers ...map[string]string) (int, map[string]interface{}) {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp.StatusCode, decoded
}

func signupBody() map[string]string {
	return map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"username":  "ada",
		"email":     "ada@example.com",
		"password":  "correcthorse",
	}
}

func TestHandler_Signup(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		setup      func(*testing.T, *fiber.App)
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid signup",
			body:       signupBody(),
			wantStatus: fiber.StatusOK,
		},
		{
			name: "missing password",
			body: map[string]string{
				"firstName": "Ada",
				"lastName":  "Lovelace",
				"username":  "ada",
				"email":     "ada@example.com",
			},
			wantStatus: fiber.StatusBadRequest,
			wantError:  "INVALID_DATA",
		},
		{
			name: "short password",
			body: map[string]string{
				"firstName": "Ada",
				"lastName":  "Lovelace",
				"username":  "ada",
				"email":     "ada@example.com",
				"password":  "short",
			},
			wantStatus: fiber.StatusBadRequest,
			wantError:  "INVALID_DATA",
		},
		{
			name: "malformed email",
			body: map[string]string{
				"firstName": "Ada",
				"lastName":  "Lovelace",
				"username":  "ada",
				"email":     "not-an-email",
				"password":  "correcthorse",
			},
			wantStatus: fiber.StatusBadRequest,
			wantError:  "INVALID_DATA",
		},
		{
			name: "duplicate username",
			body: signupBody(),
			setup: func(t *testing.T, app *fiber.App) {
				status, _ := postJSON(t, app, "/api/v1/user/signup", signupBody())
				require.Equal(t, fiber.StatusOK, status)
			},
			wantStatus: fiber.StatusBadRequest,
			wantError:  "DUPLICATE_USERNAME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			if tt.setup != nil {
				tt.setup(t, app)
			}

			status, body := postJSON(t, app, "/api/v1/user/signup", tt.body)
			assert.Equal(t, tt.wantStatus, status)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}

			assert.Equal(t, "SUCCESS", body["message"])
			assert.NotZero(t, body["id"])
		})
	}
}

func TestHandler_Authenticate(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := postJSON(t, app, "/api/v1/user/signup", signupBody())
	require.Equal(t, fiber.StatusOK, status)

	t.Run("valid credentials", func(t *testing.T) {
		status, body := postJSON(t, app, "/api/v1/user/authenticate", map[string]string{
			"username": "ada",
			"password": "correcthorse",
		})
		assert.Equal(t, fiber.StatusOK, status)
		assert.NotEmpty(t, body["accessToken"])
		assert.NotEmpty(t, body["refreshToken"])
	})

	t.Run("wrong password", func(t *testing.T) {
		status, body := postJSON(t, app, "/api/v1/user/authenticate", map[string]string{
			"username": "ada",
			"password": "wrongpassword",
		})
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, "INVALID_CREDENTIALS", body["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		status, body := postJSON(t, app, "/api/v1/user/authenticate", map[string]string{
			"username": "ada",
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "INVALID_DATA", body["error"])
	})
}

func TestHandler_RefreshAccessToken(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := postJSON(t, app, "/api/v1/user/signup", signupBody())
	require.Equal(t, fiber.StatusOK, status)

	status, first := postJSON(t, app, "/api/v1/user/authenticate", map[string]string{
		"username": "ada",
		"password": "correcthorse",
	})
	require.Equal(t, fiber.StatusOK, status)

	refresh := func(token string) (int, map[string]interface{}) {
		return postJSON(t, app, "/api/v1/user/refreshAccessToken", map[string]string{
			"username":     "ada",
			"refreshToken": token,
		})
	}

	status, second := refresh(first["refreshToken"].(string))
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, second["accessToken"])
	assert.NotEqual(t, first["refreshToken"], second["refreshToken"])

	// Rotation: the first token is spent.
	status, body := refresh(first["refreshToken"].(string))
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", body["error"])
}

func TestHandler_PasswordResetFlow(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := postJSON(t, app, "/api/v1/user/signup", signupBody())
	require.Equal(t, fiber.StatusOK, status)

	t.Run("unknown email", func(t *testing.T) {
		status, body := postJSON(t, app, "/api/v1/user/forgot", map[string]string{
			"email": "unknown@example.com",
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "INVALID_DATA", body["error"])
	})

	status, body := postJSON(t, app, "/api/v1/user/forgot", map[string]string{
		"email": "ada@example.com",
	})
	require.Equal(t, fiber.StatusOK, status)
	token, ok := body["passwordResetToken"].(string)
	require.True(t, ok)
	assert.Regexp(t, tokenPattern, token)

	status, body = postJSON(t, app, "/api/v1/user/checkPasswordResetToken", map[string]string{
		"email":              "ada@example.com",
		"passwordResetToken": token,
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "SUCCESS", body["message"])

	status, body = postJSON(t, app, "/api/v1/user/resetPassword", map[string]string{
		"email":              "ada@example.com",
		"passwordResetToken": token,
		"password":           "brandnewpass1",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "SUCCESS", body["message"])

	// Consumed: the same token cannot reset twice.
	status, body = postJSON(t, app, "/api/v1/user/resetPassword", map[string]string{
		"email":              "ada@example.com",
		"passwordResetToken": token,
		"password":           "yetanotherpass2",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_TOKEN", body["error"])

	status, _ = postJSON(t, app, "/api/v1/user/authenticate", map[string]string{
		"username": "ada",
		"password": "brandnewpass1",
	})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestHandler_ProtectedRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := postJSON(t, app, "/api/v1/user/signup", signupBody())
	require.Equal(t, fiber.StatusOK, status)

	status, pair := postJSON(t, app, "/api/v1/user/authenticate", map[string]string{
		"username": "ada",
		"password": "correcthorse",
	})
	require.Equal(t, fiber.StatusOK, status)

	authHeader := map[string]string{
		"Authorization": "Bearer " + pair["accessToken"].(string),
	}

	t.Run("missing token", func(t *testing.T) {
		status, body := postJSON(t, app, "/api/v1/user/private", map[string]string{})
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, "INVALID_TOKEN", body["error"])
	})

	t.Run("garbage token", func(t *testing.T) {
		status, _ := postJSON(t, app, "/api/v1/user/private", map[string]string{}, map[string]string{
			"Authorization": "Bearer nonsense",
		})
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("valid token echoes claims", func(t *testing.T) {
		status, body := postJSON(t, app, "/api/v1/user/private", map[string]string{}, authHeader)
		assert.Equal(t, fiber.StatusOK, status)

		user, ok := body["user"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "ada", user["username"])
		assert.Equal(t, "ada@example.com", user["email"])
	})

	t.Run("invalidate all sessions", func(t *testing.T) {
		status, body := postJSON(t, app, "/api/v1/user/invalidateAllRefreshTokens", map[string]string{
			"username": "ada",
		}, authHeader)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "SUCCESS", body["message"])

		status, body = postJSON(t, app, "/api/v1/user/refreshAccessToken", map[string]string{
			"username":     "ada",
			"refreshToken": pair["refreshToken"].(string),
		})
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, "INVALID_REFRESH_TOKEN", body["error"])
	})
}

func TestHandler_InvalidateRefreshToken(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := postJSON(t, app, "/api/v1/user/signup", signupBody())
	require.Equal(t, fiber.StatusOK, status)

	status, pair := postJSON(t, app, "/api/v1/user/authenticate", map[string]string{
		"username": "ada",
		"password": "correcthorse",
	})
	require.Equal(t, fiber.StatusOK, status)

	authHeader := map[string]string{
		"Authorization": "Bearer " + pair["accessToken"].(string),
	}

	status, body := postJSON(t, app, "/api/v1/user/invalidateRefreshToken", map[string]string{
		"username":     "ada",
		"refreshToken": pair["refreshToken"].(string),
	}, authHeader)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "SUCCESS", body["message"])

	// No longer valid, so a repeat invalidation reports INVALID_DATA.
	status, body = postJSON(t, app, "/api/v1/user/invalidateRefreshToken", map[string]string{
		"username":     "ada",
		"refreshToken": pair["refreshToken"].(string),
	}, authHeader)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_DATA", body["error"])
}

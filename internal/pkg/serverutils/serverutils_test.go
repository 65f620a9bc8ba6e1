package serverutils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(mw ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nil))
	handlers := append(mw, func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("ok", fiber.Map{"hello": "world"}))
	})
	app.Get("/x", handlers...)
	app.Get("/boom", func(c *fiber.Ctx) error { panic("kaboom") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	return app
}

func TestJwtMiddleware(t *testing.T) {
	const secret = "s3cret"
	good, err := IssueOperatorToken(secret, "ops@vaulta", time.Minute)
	require.NoError(t, err)
	wrongKey, err := IssueOperatorToken("other", "ops@vaulta", time.Minute)
	require.NoError(t, err)
	expired, err := IssueOperatorToken(secret, "ops@vaulta", -time.Minute)
	require.NoError(t, err)

	app := newApp(JwtMiddleware(secret))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer " + good, want: 200},
		{name: "missing", header: "", want: 401},
		{name: "wrong key", header: "Bearer " + wrongKey, want: 401},
		{name: "expired", header: "Bearer " + expired, want: 401},
		{name: "garbage", header: "Bearer nope", want: 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestIssueOperatorTokenNeedsSecret(t *testing.T) {
	_, err := IssueOperatorToken("", "ops", time.Minute)
	assert.Error(t, err)
}

func TestSharedSecretMiddleware(t *testing.T) {
	app := newApp(SharedSecretMiddleware("X-Vapi-Secret", "hook"))

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-Vapi-Secret", "hook")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-Vapi-Secret", "wrong")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	var body BaseResponse[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)

	resp, err = app.Test(httptest.NewRequest("GET", "/teapot", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "short and stout", body.Message)
}

func TestValidateRequest(t *testing.T) {
	type payload struct {
		SessionID string `validate:"required"`
		Channel   string `validate:"required,oneof=phone sms web_voice web_chat"`
	}

	assert.NoError(t, ValidateRequest(payload{SessionID: "s", Channel: "sms"}))

	err := ValidateRequest(payload{Channel: "fax"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SessionID is required")
	assert.Contains(t, err.Error(), "Channel must be one of")
}

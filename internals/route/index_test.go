// file: internals/route/index_test.go
package routes

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentService "sekolahku_backend/internals/features/finance/payments/service"
)

// Callback PSP dipanggil server-to-server tanpa JWT; yang menjaga endpoint
// adalah verifikasi signature_key di handler, bukan middleware AuthJWT.
func TestMidtransCallbackMountedWithoutJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	paymentService.InitMidtrans("test-server-key", false)

	app := fiber.New()
	SetupRoutes(app, nil)

	body := `{"order_id":"INST-1","transaction_status":"settlement","status_code":"200","gross_amount":"100000.00","signature_key":"bukan-signature-asli"}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/w/payments/midtrans/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	// sampai ke handler (ditolak karena signature), bukan 401 "Unauthorized" dari JWT
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(raw), "invalid signature")
}

func TestAdminRoutesStillRequireJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	app := fiber.New()
	SetupRoutes(app, nil)

	req := httptest.NewRequest(fiber.MethodGet,
		"/api/a/1b4e28ba-2fa1-11d2-883f-b9a761bde3fb/payment-plans", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.NotContains(t, string(raw), "invalid signature")
}

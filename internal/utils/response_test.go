package utils_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/utils"
)

func performRequest(t *testing.T, handler fiber.Handler) (int, utils.APIResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload utils.APIResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	return resp.StatusCode, payload
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	status, payload := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "", map[string]string{"key": "value"})
	})

	require.Equal(t, http.StatusOK, status)
	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
}

func TestSendErrorStatusAndMessage(t *testing.T) {
	status, payload := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusNotFound, "image not found")
	})

	require.Equal(t, http.StatusNotFound, status)
	require.False(t, payload.Success)
	require.Equal(t, "image not found", payload.Message)
}

func TestSendValidationErrorsCarriesViolations(t *testing.T) {
	status, payload := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendValidationErrors(c, "invalid permissions", []string{"one", "two"})
	})

	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, payload.Success)
	require.Equal(t, []string{"one", "two"}, payload.Errors)
}

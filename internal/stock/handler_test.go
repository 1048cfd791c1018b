package stock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"asador-backend/internal/database"
	"asador-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	database.DB = newTestDB(t)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/api/stock", GetStockHandler())
	app.Post("/api/stock/mounted/add", AddMountedHandler())
	app.Post("/api/stock/mounted/correction", MountedCorrectionHandler())
	app.Post("/api/stock/reset", ResetStockHandler())
	app.Get("/api/stock/history", HistoryHandler())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if resp.Header.Get("Content-Type") != "" && resp.ContentLength != 0 {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func TestAddMountedEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/api/stock/mounted/add", `{"quantity":"10"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "10.0", body["initial_stock"])
	require.Equal(t, "10.0", body["current_stock"])

	// quantities also arrive as JSON numbers
	resp, body = doJSON(t, app, "POST", "/api/stock/mounted/add", `{"quantity":2.5}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "12.5", body["current_stock"])
}

func TestAddMountedRejectsOffGridQuantity(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/api/stock/mounted/add", `{"quantity":"1.3"}`)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Cantidad no válida", body["error"])
}

func TestCorrectionKeepsSign(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, "POST", "/api/stock/mounted/add", `{"quantity":"10"}`)
	resp, body := doJSON(t, app, "POST", "/api/stock/mounted/correction", `{"quantity":"-1.5"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "8.5", body["current_stock"])
}

func TestGetStockRecomputesReservations(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, "POST", "/api/stock/mounted/add", `{"quantity":"10"}`)

	// a pending order for today must show up even though no stock action ran
	pickup := DayStart(time.Now()).Add(12 * time.Hour)
	require.NoError(t, database.DB.Create(&models.Order{
		Reference:    "ref-reserva",
		CustomerName: "Prueba",
		Quantity:     decimal.RequireFromString("2.5"),
		Status:       models.OrderStatusPending,
		PickupTime:   pickup,
	}).Error)

	resp, body := doJSON(t, app, "GET", "/api/stock", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "10.0", body["current_stock"])
	require.Equal(t, "2.5", body["reserved_stock"])
	require.Equal(t, "7.5", body["unreserved_stock"])
}

func TestResetEndpoint(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, "POST", "/api/stock/mounted/add", `{"quantity":"10"}`)
	resp, body := doJSON(t, app, "POST", "/api/stock/reset", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "0.0", body["current_stock"])
	require.Equal(t, "0.0", body["initial_stock"])
}

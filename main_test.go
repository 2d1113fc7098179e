package main

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lapak/internal/config"
	"lapak/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		AppPort:        ":0",
		AppEnv:         "test",
		DatabaseDriver: "sqlite",
		JWTSecret:      "test-secret",
		SiteName:       "Martabak MSME",
		ContactEmail:   "contact@martabak-msme.com",
		ContactPhone:   "+62 123 456 7890",
	}
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.SalesData{},
	))
	return db
}

func TestNewApp_Health(t *testing.T) {
	cfg := testConfig()
	app := newApp(cfg, openTestDatabase(t), nil, zap.NewNop())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "Martabak MSME", body["site"])
	assert.NotEmpty(t, body["time"])
}

func TestNewApp_ContactEndpoint(t *testing.T) {
	cfg := testConfig()
	app := newApp(cfg, openTestDatabase(t), nil, zap.NewNop())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/contact", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Martabak MSME", body["site_name"])
	assert.Equal(t, "contact@martabak-msme.com", body["contact_email"])
	assert.Equal(t, "+62 123 456 7890", body["contact_phone"])
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	db := openTestDatabase(t)
	logger := zap.NewNop()

	seedCatalog(db, logger)
	var first int64
	require.NoError(t, db.Model(&models.Product{}).Count(&first).Error)
	assert.Greater(t, first, int64(0))

	seedCatalog(db, logger)
	var second int64
	require.NoError(t, db.Model(&models.Product{}).Count(&second).Error)
	assert.Equal(t, first, second, "seeding must not duplicate the catalog")
}

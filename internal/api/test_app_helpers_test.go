package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ekklesia/internal/db"
	"github.com/terraincognita07/ekklesia/internal/models"
	"github.com/terraincognita07/ekklesia/internal/services"
	"gorm.io/gorm"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type testApp struct {
	app      *fiber.App
	database *gorm.DB
	handler  *Handler
	uploads  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "ekklesia-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	uploads := filepath.Join(t.TempDir(), "uploads")
	handler, err := NewHandler(database, Options{
		SecretKey:   testSecretKey,
		TokenTTL:    time.Hour,
		Location:    time.UTC,
		MaxPageSize: 100,
		UploadsDir:  uploads,
		Church:      services.ChurchInfo{Name: "Grace Church", City: "Tver"},
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return &testApp{app: app, database: database, handler: handler, uploads: uploads}
}

func (fixture *testApp) do(t *testing.T, method string, path string, token string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return fixture.send(t, request)
}

func (fixture *testApp) send(t *testing.T, request *http.Request) (int, []byte) {
	t.Helper()

	response, err := fixture.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return response.StatusCode, raw
}

// register creates an account and returns its bearer token.
func (fixture *testApp) register(t *testing.T, username string) string {
	t.Helper()

	status, raw := fixture.do(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username":  username,
		"password":  "StrongPass1",
		"full_name": username,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, status, raw)
	}
	var auth authView
	decodeJSON(t, raw, &auth)
	return auth.AccessToken
}

func (fixture *testApp) userID(t *testing.T, username string) string {
	t.Helper()

	var user models.User
	if err := fixture.database.Where("username = ?", username).First(&user).Error; err != nil {
		t.Fatalf("load user %s: %v", username, err)
	}
	return user.ID
}

func (fixture *testApp) seedServiceType(t *testing.T, name string) uint {
	t.Helper()

	serviceType := models.ServiceType{Name: name}
	if err := fixture.database.Create(&serviceType).Error; err != nil {
		t.Fatalf("seed service type: %v", err)
	}
	return serviceType.ID
}

func decodeJSON(t *testing.T, raw []byte, target any) {
	t.Helper()
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode response %s: %v", raw, err)
	}
}

func assertAPIError(t *testing.T, status int, raw []byte, expectedStatus int, expectedKind string) {
	t.Helper()

	if status != expectedStatus {
		t.Fatalf("expected status %d, got %d: %s", expectedStatus, status, raw)
	}
	payload := map[string]string{}
	decodeJSON(t, raw, &payload)
	if payload["error"] != expectedKind {
		t.Fatalf("expected error kind %q, got %q", expectedKind, payload["error"])
	}
}

package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aakashdp/labadmin_backend/internal/config"
	"github.com/aakashdp/labadmin_backend/internal/database"
	"github.com/aakashdp/labadmin_backend/internal/models"
	"github.com/aakashdp/labadmin_backend/internal/routes"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "admin123"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:     "testsecret",
		JWTIssuer:     "labadmin_test",
		JWTExpiresIn:  "24",
		AdminName:     "Administrator",
		AdminEmail:    testAdminEmail,
		AdminPassword: testAdminPassword,
	}
	if err := database.SeedAdmin(db, cfg); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	r := gin.New()
	routes.Register(r, db, cfg)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	return out
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", email, w.Code, w.Body.String())
	}
	token, _ := decodeBody(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("login %s: empty token", email)
	}
	return token
}

// registerUser creates a user through the public endpoint and returns a
// fresh token for them.
func registerUser(t *testing.T, r *gin.Engine, name, email string, role models.Role) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name": name, "email": email, "role": role, "password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, w.Code, w.Body.String())
	}
	return login(t, r, email, "secret123")
}

func seedLabAndDevice(t *testing.T, db *gorm.DB) (models.Lab, models.Device) {
	t.Helper()
	lab := models.Lab{LabName: "Physics Lab", Location: "Block A"}
	if err := db.Create(&lab).Error; err != nil {
		t.Fatalf("create lab: %v", err)
	}
	device := models.Device{
		DeviceName: "Workstation 1", DeviceType: "Desktop",
		Brand: "Dell", Model: "OptiPlex", SerialNumber: "SN-1001",
		Status: models.DeviceOperational, LabID: lab.ID,
	}
	if err := db.Create(&device).Error; err != nil {
		t.Fatalf("create device: %v", err)
	}
	return lab, device
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/peerlink-dev/peerlink/db"
	"github.com/peerlink-dev/peerlink/internal/auth"
	"github.com/peerlink-dev/peerlink/internal/models"
	"github.com/peerlink-dev/peerlink/internal/router"
	"github.com/peerlink-dev/peerlink/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest wires an in-memory database and a fresh router for one test.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	t.Setenv("JWT_SECRET", "test-secret")
	if err := auth.InitJWTSecret(); err != nil {
		t.Fatalf("setupTest() failed: %v", err)
	}

	t.Setenv("MEDIA_ROOT", t.TempDir())
	if err := storage.InitMediaRoot(); err != nil {
		t.Fatalf("setupTest() failed: %v", err)
	}

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("setupTest() failed: %v", err)
	}

	// A second pool connection would see an empty in-memory database.
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("setupTest() failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb

	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("setupTest() failed: %v", err)
	}

	gin.SetMode(gin.TestMode)

	return router.NewRouter()
}

// createUser inserts a user with a profile and returns it with a valid token.
func createUser(t *testing.T, name, email string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}

	profile := models.Profile{
		UserID:     user.ID,
		FirstName:  name,
		LastName:   "Student",
		Year:       "2",
		Department: "CS",
		Division:   "A",
		Subject:    "Algorithms",
	}

	if err := db.DB.Create(&profile).Error; err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}

	return user, token
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("doJSON() failed: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// uploadNote performs a multipart note upload.
func uploadNote(t *testing.T, r *gin.Engine, token, title, description, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("title", title); err != nil {
		t.Fatalf("uploadNote() failed: %v", err)
	}
	if err := writer.WriteField("description", description); err != nil {
		t.Fatalf("uploadNote() failed: %v", err)
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("uploadNote() failed: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("uploadNote() failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("uploadNote() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/notes_dashboard", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// connect runs the full request/accept flow between two users.
func connect(t *testing.T, r *gin.Engine, from models.User, fromToken string, to models.User, toToken string) {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/send_request/%d", to.ID), fromToken, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("connect() send failed: status %d, body %s", rec.Code, rec.Body.String())
	}

	var conn models.Connection
	if err := db.DB.Where("from_user_id = ? AND to_user_id = ? AND is_accepted = ?", from.ID, to.ID, false).First(&conn).Error; err != nil {
		t.Fatalf("connect() failed: %v", err)
	}

	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/accept_request/%d", conn.ID), toToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("connect() accept failed: status %d, body %s", rec.Code, rec.Body.String())
	}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decodeJSON() failed: %v (body: %s)", err, rec.Body.String())
	}
}

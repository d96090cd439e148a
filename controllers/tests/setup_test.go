package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"GameHub/config"
	"GameHub/middleware"
	models "GameHub/models/postgres"
	"GameHub/routes"
	socketio_types "GameHub/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	testDB     *gorm.DB
	testRouter *gin.Engine
	nameSeq    atomic.Int64
)

func TestMain(m *testing.M) {
	godotenv.Load("../../.env")

	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "controllers-test-secret")
	}
	if os.Getenv("KEY") == "" {
		os.Setenv("KEY", "controllers-test-session-key")
	}
	gin.SetMode(gin.TestMode)

	// The suite needs a real PostgreSQL instance; without one every test
	// is skipped instead of failing.
	if os.Getenv("POSTGRES_HOST") != "" {
		db, err := config.ConnectGORM()
		if err == nil {
			if err := config.MigrateDatabase(db); err == nil {
				testDB = db
				r := gin.New()
				middleware.SetUpMiddleware(r)
				routes.SetupRoutes(r, db, nil, socketio_types.NewSocketServer())
				testRouter = r
			}
		}
	}

	os.Exit(m.Run())
}

func requireRouter(t *testing.T) {
	t.Helper()
	if testRouter == nil {
		t.Skip("POSTGRES_HOST not set, skipping controller tests")
	}
}

// uniqueName returns a name that is unique across the whole test run so
// reruns against the same database never collide.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%s_%d", prefix, time.Now().Format("20060102150405"), nameSeq.Add(1))
}

func doForm(t *testing.T, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func doJSON(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(method, path, strings.NewReader(string(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

// newTestUser signs up and logs in a fresh user, returning its id and a
// bearer token. The user is removed when the test finishes.
func newTestUser(t *testing.T, prefix string) (userID, token string) {
	t.Helper()

	username := uniqueName(prefix)
	w := doForm(t, http.MethodPost, "/signup", "", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"testpass123"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		UserID string `json:"user_id"`
	}
	decodeJSON(t, w, &created)
	require.NotEmpty(t, created.UserID)

	w = doForm(t, http.MethodPost, "/login", "", url.Values{
		"username": {username},
		"password": {"testpass123"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decodeJSON(t, w, &login)
	require.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "bearer", login.TokenType)

	t.Cleanup(func() {
		testDB.Where("id = ?", created.UserID).Delete(&models.User{})
	})
	return created.UserID, login.AccessToken
}

// newTestGame inserts a catalog game directly, returning its id. The game
// is removed when the test finishes.
func newTestGame(t *testing.T, externalID string) string {
	t.Helper()

	game := models.Game{
		Title:     uniqueName("game"),
		Developer: "Test Studio",
	}
	if externalID != "" {
		game.ExternalAPIID = &externalID
	}
	require.NoError(t, testDB.Create(&game).Error)
	t.Cleanup(func() {
		testDB.Where("id = ?", game.ID).Delete(&models.Game{})
	})
	return game.ID
}

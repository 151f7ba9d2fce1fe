package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Wikid82/lockward/internal/api/middleware"
	"github.com/Wikid82/lockward/internal/config"
	"github.com/Wikid82/lockward/internal/services"
)

// setupAdminRouter mounts the admin handlers without token checks; the
// caller is always "tester".
func setupAdminRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := OpenTestDB(t)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.SubjectKey, "tester")
		c.Next()
	})

	locks := NewLockHandler(db)
	r.GET("/locks", locks.List)
	r.POST("/locks", locks.Create)
	r.GET("/locks/:uid", locks.Get)
	r.PUT("/locks/:uid", locks.Update)
	r.DELETE("/locks/:uid", locks.Delete)

	cards := NewCardHandler(db)
	r.GET("/cards", cards.List)
	r.POST("/cards", cards.Create)
	r.GET("/cards/:uid", cards.Get)
	r.PUT("/cards/:uid", cards.Update)
	r.PUT("/cards/:uid/locks", cards.AssignLocks)
	r.DELETE("/cards/:uid", cards.Delete)
	r.POST("/cards/:uid/approve", cards.Approve)
	r.POST("/cards/:uid/revoke", cards.Revoke)

	logs := NewAccessLogHandler(db, 2*time.Minute)
	r.GET("/access-logs", logs.List)
	r.GET("/access-logs/new-cards", logs.NewCards)
	r.GET("/access-logs/score-report", logs.ScoreReport)
	r.GET("/access-logs/:uuid", logs.Get)
	r.PUT("/access-logs/:uuid/score", logs.Score)

	projects := NewProjectHandler(db)
	r.GET("/projects", projects.List)
	r.POST("/projects", projects.Create)
	r.GET("/projects/:uid", projects.Get)
	r.PUT("/projects/:uid", projects.Update)
	r.DELETE("/projects/:uid", projects.Delete)

	access := NewAccessHandler(services.NewAccessService(
		services.NewCardService(db),
		services.NewAccessLogService(db),
		services.NewErrorReporter(config.AlertConfig{}),
	))
	r.GET("/access", access.Check)

	return r, db
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func discardEntry() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("component", "honeybadger")
}

func TestHoneybadgerMiddleware_PassThroughWithoutKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("HONEYBADGER_API_KEY", "")

	router := gin.New()
	router.Use(HoneybadgerMiddleware(discardEntry()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestHoneybadgerMiddleware_PanicStillReachesRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("HONEYBADGER_API_KEY", "")

	router := gin.New()
	router.Use(HoneybadgerMiddleware(discardEntry()))
	router.Use(gin.Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	req, _ := http.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 from recovery, got %d", w.Code)
	}
}

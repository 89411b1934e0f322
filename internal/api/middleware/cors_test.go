package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/savorly/recommender/internal/config"
	"github.com/stretchr/testify/assert"
)

func corsEngine(cfg config.CORSConfig) *gin.Engine {
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.CORSConfig
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantCredits string
	}{
		{
			name:        "allow all",
			cfg:         config.CORSConfig{AllowAllOrigins: true},
			method:      http.MethodGet,
			origin:      "https://a.example",
			wantStatus:  http.StatusOK,
			wantOrigin:  "*",
			wantCredits: "false",
		},
		{
			name:        "listed origin",
			cfg:         config.CORSConfig{AllowedOrigins: []string{"https://app.example"}},
			method:      http.MethodGet,
			origin:      "https://APP.example",
			wantStatus:  http.StatusOK,
			wantOrigin:  "https://APP.example",
			wantCredits: "true",
		},
		{
			name:       "unlisted origin",
			cfg:        config.CORSConfig{AllowedOrigins: []string{"https://app.example"}},
			method:     http.MethodGet,
			origin:     "https://evil.example",
			wantStatus: http.StatusOK,
		},
		{
			name:        "preflight",
			cfg:         config.CORSConfig{AllowedOrigins: []string{"*"}},
			method:      http.MethodOptions,
			origin:      "https://b.example",
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "https://b.example",
			wantCredits: "true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			corsEngine(tt.cfg).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredits, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestIsOriginAllowed(t *testing.T) {
	cfg := config.CORSConfig{AllowedOrigins: []string{"https://app.example"}}
	assert.True(t, IsOriginAllowed("https://app.example", cfg))
	assert.False(t, IsOriginAllowed("https://other.example", cfg))
	assert.True(t, IsOriginAllowed("https://other.example", config.CORSConfig{AllowAllOrigins: true}))
}

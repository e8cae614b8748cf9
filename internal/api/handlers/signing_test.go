package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/webvision/quoting-api/internal/config"
)

func signingRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/signing-sessions/init", HandleInitSigningSession(cfg, zap.NewNop()))
	return router
}

func providerConfig(baseURL, apiKey string) *config.Config {
	return &config.Config{
		DocuSeal: config.DocuSealConfig{
			BaseURL: baseURL,
			APIKey:  apiKey,
			Timeout: 5 * time.Second,
		},
	}
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestInitSigningSessionMissingFields(t *testing.T) {
	router := signingRouter(providerConfig("http://unreachable.invalid", "key"))

	for _, body := range []string{`{}`, `{"templateId":"t1"}`, `{"email":"a@b.com"}`} {
		rec := postJSON(t, router, "/signing-sessions/init", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		assert.JSONEq(t, `{"error":"Missing required fields: templateId, email"}`, rec.Body.String())
	}
}

func TestInitSigningSessionSuccess(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[{"id":42,"slug":"abc123"}]`))
	}))
	defer provider.Close()

	router := signingRouter(providerConfig(provider.URL, "key"))
	rec := postJSON(t, router, "/signing-sessions/init", `{"templateId":"t1","email":"a@b.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"slug":"abc123","submission_id":42}`, rec.Body.String())
}

func TestInitSigningSessionUpstreamFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"template not found"}`))
	}))
	defer provider.Close()

	router := signingRouter(providerConfig(provider.URL, "key"))
	rec := postJSON(t, router, "/signing-sessions/init", `{"templateId":"t1","email":"a@b.com"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"template not found"}`, rec.Body.String())
}

func TestInitSigningSessionMissingCredential(t *testing.T) {
	calls := 0
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer provider.Close()

	router := signingRouter(providerConfig(provider.URL, ""))
	rec := postJSON(t, router, "/signing-sessions/init", `{"templateId":"t1","email":"a@b.com"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"DOCUSEAL_API_KEY is not configured"}`, rec.Body.String())
	assert.Equal(t, 0, calls)
}

func TestInitSigningSessionMalformedBody(t *testing.T) {
	router := signingRouter(providerConfig("http://unreachable.invalid", "key"))
	rec := postJSON(t, router, "/signing-sessions/init", `{"templateId":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

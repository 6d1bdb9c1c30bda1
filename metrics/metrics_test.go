package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentLabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Instrument())
	router.GET("/api/meals/:id", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	for _, path := range []string{"/api/meals/1", "/api/meals/2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `mealplan_http_requests_total{method="GET",route="/api/meals/:id",status="204"} 2`)
}

func TestHandlerExposesDomainCounters(t *testing.T) {
	RecordPaymentCallback("webhook", "paid")
	RecordExpiredOrders(3)
	RecordExpiredOrders(0)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.True(t, strings.Contains(body, `mealplan_payments_callbacks_total{outcome="paid",source="webhook"} 1`))
	assert.Contains(t, body, "mealplan_orders_expired_total 3")
}

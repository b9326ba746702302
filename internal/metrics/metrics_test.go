package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGinMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/tasks/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/tasks/:id", "204"))
	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/tasks/:id", "204"))
	require.Equal(t, 3.0, after-before)
}

func TestObserveMutation_Result(t *testing.T) {
	ok := mutationsTotal.WithLabelValues("task", "create", "success")
	failed := mutationsTotal.WithLabelValues("task", "create", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveMutation("task", "create", nil)
	ObserveMutation("task", "create", errors.New("boom"))

	require.Equal(t, 1.0, testutil.ToFloat64(ok)-okBefore)
	require.Equal(t, 1.0, testutil.ToFloat64(failed)-failedBefore)
}

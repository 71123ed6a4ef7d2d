package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/colectorpro/server/internal/metrics"
)

func TestInstrumentHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.InstrumentHandler)
	r.Delete("/api/cars/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", metrics.Handler())

	req := httptest.NewRequest(http.MethodDelete, "/api/cars/abc-123", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTeapot, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	// Метка пути берется из шаблона маршрута, а не из конкретного id
	assert.Contains(t, body, `colectorpro_http_requests_total{method="DELETE",path="/api/cars/{id}",status="418"} 1`)
	assert.NotContains(t, body, "abc-123")
}

func TestRecordCarMutation(t *testing.T) {
	before := mutationCount(t, metrics.OpCreate)
	metrics.RecordCarMutation(metrics.OpCreate)
	assert.InDelta(t, before+1, mutationCount(t, metrics.OpCreate), 0.001)
}

// mutationCount читает текущее значение счетчика изменений из реестра.
func mutationCount(t *testing.T, op string) float64 {
	t.Helper()
	families, err := metrics.Registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "colectorpro_cars_mutations_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "op" && l.GetValue() == op {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

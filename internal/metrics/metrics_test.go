package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/v1/interviews/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/interviews/{id}", "418"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interviews/abc123", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/interviews/{id}", "418"))
	if after-before != 1 {
		t.Fatalf("expected one request recorded under the route pattern, got %v", after-before)
	}
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(interviewsGenerated.WithLabelValues(OutcomeSuccess))
	ObserveInterviewGeneration(OutcomeSuccess)
	if got := testutil.ToFloat64(interviewsGenerated.WithLabelValues(OutcomeSuccess)); got != before+1 {
		t.Fatalf("expected counter to increase, got %v", got)
	}

	ObserveFeedbackGeneration("malformed_output")
	ObserveCallTransition("ACTIVE", "FINISHED")
	SetActiveCalls(3)
	if got := testutil.ToFloat64(activeCalls); got != 3 {
		t.Fatalf("expected gauge 3, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	ObserveCallTransition("INACTIVE", "CONNECTING")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "mockinterview_call_transitions_total") {
		t.Fatalf("expected call transition metric in output")
	}
}

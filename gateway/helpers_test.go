package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	apperrors "github.com/kbukum/accessmatrix/errors"
	"github.com/kbukum/accessmatrix/permission"
	"github.com/kbukum/accessmatrix/snapshot"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Scenario 1: can view, can initiate payments, enabled, no settings.
const paymentsSnapshot = `{
  "accountMembership": {
    "canViewAccount": true,
    "canInitiatePayments": true,
    "statusInfo": {"status": "Enabled"}
  },
  "settings": null
}`

// A card manager for other members: grants cancelCard and updateCard.
const cardManagerSnapshot = `{
  "accountMembership": {
    "canManageCards": true,
    "canManageAccountMembership": true,
    "statusInfo": {"__typename": "AccountMembershipEnabledStatusInfo"}
  }
}`

// Can manage own cards only: grants updateCard but not cancelCard.
const ownCardsSnapshot = `{
  "accountMembership": {
    "canManageCards": true,
    "statusInfo": {"status": "Enabled"}
  }
}`

type testEvaluator struct {
	*Evaluator
	reader *sdkmetric.ManualReader
}

func newTestEvaluator(t *testing.T) testEvaluator {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	ev, err := NewEvaluator(permission.Default(), mp.Meter("test"), tracenoop.NewTracerProvider().Tracer("test"))
	require.NoError(t, err)
	return testEvaluator{Evaluator: ev, reader: reader}
}

// counter returns the sum of the named counter across all attribute sets.
func (te testEvaluator) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, te.reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func mustSnapshot(t *testing.T, doc string) *snapshot.Snapshot {
	t.Helper()
	s, err := snapshot.Parse([]byte(doc))
	require.NoError(t, err)
	return s
}

func doJSON(h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorBody {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error
}

package gateway

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kbukum/accessmatrix/errors"
	"github.com/kbukum/accessmatrix/logger"
	"github.com/kbukum/accessmatrix/observability"
	"github.com/kbukum/accessmatrix/permission"
)

func newAPI(t *testing.T) (*gin.Engine, testEvaluator) {
	t.Helper()
	ev := newTestEvaluator(t)
	r := gin.New()
	NewHandler(ev.Evaluator, permission.DefaultProfiles(), logger.Nop()).RegisterRoutes(r)
	return r, ev
}

func TestKeys(t *testing.T) {
	r, _ := newAPI(t)

	w := doJSON(r, http.MethodGet, "/v1/permissions/keys", "")
	require.Equal(t, http.StatusOK, w.Code)

	keys := decodeData[[]string](t, w)
	assert.Len(t, keys, len(permission.Keys()))
	assert.True(t, slices.IsSorted(keys))
	assert.Contains(t, keys, "readCard")
	assert.Contains(t, keys, "createMerchantPaymentLink")
}

func TestEvaluate(t *testing.T) {
	r, ev := newAPI(t)

	w := doJSON(r, http.MethodPost, "/v1/permissions/evaluate", paymentsSnapshot)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	m := decodeData[map[string]bool](t, w)
	assert.Len(t, m, len(permission.Keys()))
	assert.True(t, m["initiateCreditTransferToExistingBeneficiary"])
	assert.True(t, m["createStandingOrder"])
	assert.False(t, m["addCard"])
	assert.EqualValues(t, 1, ev.counter(t, "permission.evaluations"))
}

func TestEvaluate_NoSnapshotYieldsDefaultMatrix(t *testing.T) {
	r, _ := newAPI(t)

	for _, body := range []string{"", "null", "  \n"} {
		w := doJSON(r, http.MethodPost, "/v1/permissions/evaluate", body)
		require.Equal(t, http.StatusOK, w.Code)

		m := decodeData[map[string]bool](t, w)
		assert.Len(t, m, len(permission.Keys()))
		for k, v := range m {
			assert.False(t, v, k)
		}
	}
}

func TestEvaluate_ServerProfile(t *testing.T) {
	r, _ := newAPI(t)

	w := doJSON(r, http.MethodPost, "/v1/permissions/evaluate?profile=server", ownCardsSnapshot)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, map[string]bool{"cancelCard": false, "updateCard": true}, decodeData[map[string]bool](t, w))
}

func TestEvaluate_Errors(t *testing.T) {
	r, _ := newAPI(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   apperrors.ErrorCode
	}{
		{"unknown profile", "/v1/permissions/evaluate?profile=admin", paymentsSnapshot, http.StatusNotFound, apperrors.ErrCodeNotFound},
		{"missing membership", "/v1/permissions/evaluate", `{"settings": {}}`, http.StatusBadRequest, apperrors.ErrCodeMissingField},
		{"malformed", "/v1/permissions/evaluate", `{"accountMembership":`, http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestBodyOverLimit(t *testing.T) {
	ev := newTestEvaluator(t)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 16)
		c.Next()
	})
	NewHandler(ev.Evaluator, permission.DefaultProfiles(), logger.Nop()).RegisterRoutes(r)

	bodies := map[string]string{
		"/v1/permissions/evaluate": paymentsSnapshot,
		"/v1/permissions/check":    `{"permission":"readCard","snapshot":` + paymentsSnapshot + `}`,
	}
	for path, body := range bodies {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
			req.ContentLength = -1
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
			e := decodeError(t, w)
			assert.Equal(t, apperrors.ErrCodeTooLarge, e.Code)
			assert.EqualValues(t, 16, e.Details["limit_bytes"])
		})
	}
}

func TestCheck(t *testing.T) {
	r, ev := newAPI(t)

	tests := []struct {
		name       string
		body       string
		profile    string
		authorized bool
	}{
		{"granted", `{"permission":"createStandingOrder","snapshot":` + paymentsSnapshot + `}`, "client", true},
		{"denied", `{"permission":"addCard","snapshot":` + paymentsSnapshot + `}`, "client", false},
		{"alias", `{"permission":"updateCard","profile":"server","snapshot":` + ownCardsSnapshot + `}`, "server", true},
		{"canonical name hidden by server profile", `{"permission":"readCard","profile":"server","snapshot":` + cardManagerSnapshot + `}`, "server", false},
		{"unknown permission", `{"permission":"launchRocket","snapshot":` + paymentsSnapshot + `}`, "client", false},
		{"no snapshot", `{"permission":"readTransaction"}`, "client", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/v1/permissions/check", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			got := decodeData[CheckResult](t, w)
			assert.Equal(t, tt.authorized, got.Authorized)
			assert.Equal(t, tt.profile, got.Profile)
		})
	}
	assert.EqualValues(t, len(tests), ev.counter(t, "permission.evaluations"))
	assert.EqualValues(t, 4, ev.counter(t, "permission.denials"))
}

func TestCheck_Errors(t *testing.T) {
	r, _ := newAPI(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   apperrors.ErrorCode
	}{
		{"missing permission", `{"snapshot":` + paymentsSnapshot + `}`, http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
		{"malformed body", `not json`, http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
		{"unknown profile", `{"permission":"readCard","profile":"admin"}`, http.StatusNotFound, apperrors.ErrCodeNotFound},
		{"membership missing", `{"permission":"readCard","snapshot":{}}`, http.StatusBadRequest, apperrors.ErrCodeMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/v1/permissions/check", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestRulesHealth(t *testing.T) {
	ev := newTestEvaluator(t)
	h := RulesHealth(ev.Evaluator).CheckHealth(t.Context())

	assert.Equal(t, observability.HealthStatusUp, h.Status)
	assert.Equal(t, "38", h.Details["keys"])
	assert.NotEmpty(t, h.Details["digest"])
}

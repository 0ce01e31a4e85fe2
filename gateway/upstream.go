package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kbukum/accessmatrix/auth"
	"github.com/kbukum/accessmatrix/auth/authctx"
	apperrors "github.com/kbukum/accessmatrix/errors"
	"github.com/kbukum/accessmatrix/httpclient"
	"github.com/kbukum/accessmatrix/logger"
	"github.com/kbukum/accessmatrix/observability"
	"github.com/kbukum/accessmatrix/resilience"
	"github.com/kbukum/accessmatrix/snapshot"
)

const upstreamService = "banking API"

// snapshotQuery selects exactly the fields the rule table reads. The
// settings root is aliased so the data object decodes as a Snapshot.
const snapshotQuery = `query PermissionSnapshot($accountMembershipId: ID!) {
  accountMembership(id: $accountMembershipId) {
    canViewAccount
    canManageCards
    canInitiatePayments
    canManageBeneficiaries
    canManageAccountMembership
    legalRepresentative
    statusInfo {
      __typename
      status
      ... on AccountMembershipBindingUserErrorStatusInfo {
        birthDateMatchError
        firstNameMatchError
        lastNameMatchError
        phoneNumberMatchError
        emailVerifiedMatchError
        idVerifiedMatchError
      }
      ... on AccountMembershipSuspendedStatusInfo { reason }
      ... on AccountMembershipDisabledStatusInfo { reason }
    }
    allCards { totalCount }
    account {
      paymentLevel
      merchantProfiles { totalCount }
    }
  }
  settings: projectSettings {
    canViewAccountDetails
    canViewAccountStatement
    canManageVirtualIbans
    canOrderVirtualCards
    canOrderPhysicalCards
    canCreateMerchantProfile
    canRequestMerchantPaymentMethods
    canInitiatePaymentsToNewBeneficiaries
    canAddNewMembers
  }
}`

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   *snapshot.Snapshot `json:"data"`
	Errors []graphQLError     `json:"errors"`
}

// UpstreamSource loads snapshots from the upstream GraphQL API on behalf of
// the authenticated session.
type UpstreamSource struct {
	client     *httpclient.Client
	log        *logger.Logger
	lastFailed atomic.Bool
}

// NewUpstreamSource creates a source for cfg.
func NewUpstreamSource(cfg UpstreamConfig, log *logger.Logger) (*UpstreamSource, error) {
	retry := httpclient.DefaultRetryConfig()
	retry.MaxAttempts = cfg.RetryAttempts
	retry.InitialBackoff = cfg.RetryBackoff
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		log.Debug("Retrying snapshot query", logger.Fields(
			"attempt", attempt,
			logger.FieldError, err.Error(),
			"backoff_ms", backoff.Milliseconds(),
		))
	}

	breaker := httpclient.DefaultCircuitBreakerConfig("upstream")
	breaker.MaxFailures = cfg.BreakerFailures
	breaker.Timeout = cfg.BreakerTimeout
	breaker.OnStateChange = func(name string, from, to resilience.State) {
		log.Warn("Circuit breaker state changed", logger.Fields(
			"breaker", name,
			"from", from.String(),
			"to", to.String(),
		))
	}

	client, err := httpclient.New(httpclient.Config{
		BaseURL:        cfg.URL,
		Timeout:        cfg.Timeout,
		Headers:        map[string]string{"Accept": "application/json"},
		Retry:          retry,
		CircuitBreaker: breaker,
	})
	if err != nil {
		return nil, err
	}
	return &UpstreamSource{client: client, log: log}, nil
}

// Load queries the membership named by the session claims. The caller's
// bearer token is forwarded unchanged.
func (s *UpstreamSource) Load(ctx context.Context, r *http.Request) (*snapshot.Snapshot, error) {
	claims, ok := authctx.Get[*auth.SessionClaims](ctx)
	if !ok {
		return nil, apperrors.Unauthorized("")
	}
	token, _ := authctx.Token(ctx)

	body := graphQLRequest{
		OperationName: "PermissionSnapshot",
		Query:         snapshotQuery,
		Variables:     map[string]any{"accountMembershipId": claims.AccountMembershipID},
	}
	opts := []httpclient.RequestOption{httpclient.WithBearer(token)}
	if lang := r.Header.Get("Accept-Language"); lang != "" {
		opts = append(opts, httpclient.WithHeader("Accept-Language", lang))
	}

	resp, err := httpclient.PostJSON[graphQLResponse](ctx, s.client, "", body, opts...)
	if err != nil {
		appErr := httpclient.ToAppError(upstreamService, err)
		s.lastFailed.Store(appErr.Code != apperrors.ErrCodeUnauthorized)
		return nil, appErr
	}
	s.lastFailed.Store(false)

	if len(resp.Data.Errors) > 0 {
		return nil, apperrors.Upstream(upstreamService, fmt.Errorf("graphql: %s", joinMessages(resp.Data.Errors)))
	}
	snap := resp.Data.Data
	if snap == nil || snap.AccountMembership == nil {
		return nil, apperrors.NotFound("account membership", claims.AccountMembershipID)
	}
	return snap, nil
}

// CheckHealth reports the upstream as down while the circuit is open and
// degraded when the last query failed.
func (s *UpstreamSource) CheckHealth(context.Context) observability.Health {
	h := observability.Health{
		Name:    "upstream",
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"circuit": s.client.CircuitState().String()},
	}
	switch {
	case s.client.CircuitState() == resilience.StateOpen:
		h.Status = observability.HealthStatusDown
		h.Message = "circuit open"
	case s.lastFailed.Load():
		h.Status = observability.HealthStatusDegraded
		h.Message = "last snapshot query failed"
	}
	return h
}

func joinMessages(errs []graphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

package gateway

import (
	"context"
	"time"

	"github.com/kbukum/accessmatrix/auth"
	"github.com/kbukum/accessmatrix/auth/authctx"
	"github.com/kbukum/accessmatrix/kafka"
	"github.com/kbukum/accessmatrix/logger"
)

// DecisionEventType is the event type of published gate decisions.
const DecisionEventType = "permission.decision"

// Decision is one authorization outcome of the mutation gate.
type Decision struct {
	Permission string
	Operation  string
	Profile    string
	Granted    bool
}

// Auditor records gate decisions. Record must not block the request for
// long and its failures must not change the decision.
type Auditor interface {
	Record(ctx context.Context, d Decision)
}

// KafkaAuditor publishes decisions as events keyed by account membership.
type KafkaAuditor struct {
	publisher  kafka.Publisher
	topic      string
	source     string
	deniedOnly bool
	timeout    time.Duration
	log        *logger.Logger
}

// NewKafkaAuditor creates an auditor publishing to cfg.Topic. source names
// this service in the event envelope.
func NewKafkaAuditor(publisher kafka.Publisher, cfg AuditConfig, source string, log *logger.Logger) *KafkaAuditor {
	return &KafkaAuditor{
		publisher:  publisher,
		topic:      cfg.Topic,
		source:     source,
		deniedOnly: cfg.DeniedOnly,
		timeout:    2 * time.Second,
		log:        log.WithComponent("audit"),
	}
}

// Record publishes d. The request's cancellation does not abort the
// publish; a bounded timeout does.
func (a *KafkaAuditor) Record(ctx context.Context, d Decision) {
	if a.deniedOnly && d.Granted {
		return
	}

	data := map[string]any{
		"permission": d.Permission,
		"operation":  d.Operation,
		"profile":    d.Profile,
		"granted":    d.Granted,
	}
	var membership string
	if claims, ok := authctx.Get[*auth.SessionClaims](ctx); ok {
		membership = claims.AccountMembershipID
		data["subject"] = claims.Subject
		data["membership_id"] = membership
	}
	if id := logger.RequestIDFromContext(ctx); id != "" {
		data["request_id"] = id
	}

	event := kafka.NewEvent(DecisionEventType, a.source, membership, data)
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()
	if err := a.publisher.Publish(pubCtx, a.topic, event); err != nil {
		a.log.WithContext(ctx).Warn("Decision publish failed", logger.Fields(
			logger.FieldPermission, d.Permission,
			logger.FieldOperation, d.Operation,
			logger.FieldError, err.Error(),
		))
	}
}

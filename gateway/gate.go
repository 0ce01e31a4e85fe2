package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/accessmatrix/errors"
	"github.com/kbukum/accessmatrix/logger"
	"github.com/kbukum/accessmatrix/permission"
	"github.com/kbukum/accessmatrix/server"
)

// operation is the part of a GraphQL request body the gate reads.
type operation struct {
	OperationName string `json:"operationName"`
	Query         string `json:"query"`
	Extensions    struct {
		PersistedQuery json.RawMessage `json:"persistedQuery"`
	} `json:"extensions"`
}

// gatedNames returns the names in o that p gates. With a query document
// these are the root fields of the operation that will execute, aliases
// resolved and fragments expanded. Without one only the declared operation
// name is known. Documents the gate cannot read are rejected.
func (o operation) gatedNames(p permission.Profile) ([]string, error) {
	if strings.TrimSpace(o.Query) == "" {
		if len(o.Extensions.PersistedQuery) > 0 {
			return nil, apperrors.InvalidInput("query", "persisted queries are not accepted")
		}
		if p.Gates(o.OperationName) {
			return []string{o.OperationName}, nil
		}
		return nil, nil
	}

	doc, err := parseDocument(o.Query)
	if err != nil {
		return nil, apperrors.InvalidInput("query", err.Error()).WithCause(err)
	}
	def, err := doc.operation(o.OperationName)
	if err != nil {
		return nil, apperrors.InvalidInput("operationName", err.Error()).WithCause(err)
	}
	fields, err := doc.rootFields(def)
	if err != nil {
		return nil, apperrors.InvalidInput("query", err.Error()).WithCause(err)
	}
	var names []string
	for _, f := range fields {
		if p.Gates(f) && !slices.Contains(names, f) {
			names = append(names, f)
		}
	}
	return names, nil
}

// readOperations decodes the operations of a GraphQL request: the query
// parameters of a GET, else the body as a single operation or a batch. The
// body is restored for the next handler.
func readOperations(c *gin.Context) ([]operation, error) {
	if c.Request.Method == http.MethodGet {
		var op operation
		op.OperationName = c.Query("operationName")
		op.Query = c.Query("query")
		if ext := c.Query("extensions"); ext != "" {
			if err := json.Unmarshal([]byte(ext), &op.Extensions); err != nil {
				return nil, apperrors.InvalidInput("extensions", "malformed extensions").WithCause(err)
			}
		}
		return []operation{op}, nil
	}
	if c.Request.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(c.Request.Body)
	_ = c.Request.Body.Close()
	if err != nil {
		return nil, bodyError(err, err.Error())
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	c.Request.ContentLength = int64(len(body))

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var batch []operation
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, apperrors.InvalidInput("body", "malformed GraphQL batch").WithCause(err)
		}
		return batch, nil
	}
	var op operation
	if err := json.Unmarshal(trimmed, &op); err != nil {
		return nil, apperrors.InvalidInput("body", "malformed GraphQL request").WithCause(err)
	}
	return []operation{op}, nil
}

// GateOption customizes MutationGate.
type GateOption func(*gateOptions)

type gateOptions struct {
	auditor Auditor
}

// WithAuditor records every gated decision with a.
func WithAuditor(a Auditor) GateOption {
	return func(o *gateOptions) { o.auditor = a }
}

// MutationGate authorizes the GraphQL root fields the profile aliases
// before the request reaches the next handler. Requests selecting no
// aliased field pass through untouched, so one snapshot load is paid only
// for gated requests. Documents that cannot be read are refused with 400.
func MutationGate(p permission.Profile, ev *Evaluator, source SnapshotSource, log *logger.Logger, opts ...GateOption) gin.HandlerFunc {
	var o gateOptions
	for _, opt := range opts {
		opt(&o)
	}
	log = log.WithComponent("gate")
	return func(c *gin.Context) {
		ops, err := readOperations(c)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}

		var gated []string
		for _, op := range ops {
			names, err := op.gatedNames(p)
			if err != nil {
				log.WithContext(c.Request.Context()).Warn("Unreadable GraphQL operation", logger.Fields(
					logger.FieldError, err.Error(),
				))
				server.RespondWithError(c, err)
				return
			}
			for _, name := range names {
				if !slices.Contains(gated, name) {
					gated = append(gated, name)
				}
			}
		}
		if len(gated) == 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		snap, err := source.Load(ctx, c.Request)
		if err != nil {
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				appErr = apperrors.Upstream(upstreamService, err)
			}
			log.WithContext(ctx).Error("Snapshot load failed", logger.Fields(
				logger.FieldOperation, strings.Join(gated, ","),
				logger.FieldError, err.Error(),
			))
			server.RespondWithError(c, appErr)
			return
		}

		for _, name := range gated {
			granted := ev.Authorize(ctx, p, snap, name)
			key, _ := p.Resolve(ev.Table(), name)
			if o.auditor != nil {
				o.auditor.Record(ctx, Decision{
					Permission: string(key),
					Operation:  name,
					Profile:    p.Name,
					Granted:    granted,
				})
			}
			if granted {
				continue
			}
			log.WithContext(ctx).Warn("Operation denied", logger.Fields(
				logger.FieldPermission, string(key),
				logger.FieldOperation, name,
				logger.FieldProfile, p.Name,
			))
			server.RespondWithError(c, apperrors.PermissionDenied(string(key), name))
			return
		}
		c.Next()
	}
}

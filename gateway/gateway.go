package gateway

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/accessmatrix/auth"
	"github.com/kbukum/accessmatrix/logger"
	"github.com/kbukum/accessmatrix/observability"
	"github.com/kbukum/accessmatrix/permission"
	"github.com/kbukum/accessmatrix/server/middleware"
)

// Gateway holds the evaluation API and, when enabled, the gated GraphQL
// route.
type Gateway struct {
	cfg      Config
	ev       *Evaluator
	profiles permission.Profiles
	handler  *Handler
	source   SnapshotSource
	store    SnapshotStore
	auditor  Auditor
	proxy    http.Handler
	log      *logger.Logger
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithSource replaces the upstream snapshot source.
func WithSource(s SnapshotSource) Option {
	return func(g *Gateway) { g.source = s }
}

// WithCache caches upstream snapshots in store for cfg.Cache.TTL.
func WithCache(store SnapshotStore) Option {
	return func(g *Gateway) { g.store = store }
}

// WithDecisionAuditor records the gate's decisions with a.
func WithDecisionAuditor(a Auditor) Option {
	return func(g *Gateway) { g.auditor = a }
}

// WithProxy replaces the handler gated requests are forwarded to.
func WithProxy(h http.Handler) Option {
	return func(g *Gateway) { g.proxy = h }
}

// New builds the gateway. Configured profiles are validated against the
// evaluator's table.
func New(cfg Config, perms PermissionsConfig, ev *Evaluator, log *logger.Logger, opts ...Option) (*Gateway, error) {
	profiles, err := permission.BuildProfiles(ev.Table(), perms.Profiles)
	if err != nil {
		return nil, fmt.Errorf("gateway: profiles: %w", err)
	}
	g := &Gateway{
		cfg:      cfg,
		ev:       ev,
		profiles: profiles,
		handler:  NewHandler(ev, profiles, log),
		log:      log,
	}
	for _, opt := range opts {
		opt(g)
	}
	if !cfg.Gate.Enabled {
		return g, nil
	}

	if _, ok := profiles.Get(cfg.Gate.Profile); !ok {
		return nil, fmt.Errorf("gateway: gate profile %q is not defined", cfg.Gate.Profile)
	}
	if g.source == nil {
		src, err := NewUpstreamSource(cfg.Upstream, log.WithComponent("upstream"))
		if err != nil {
			return nil, err
		}
		g.source = src
	}
	if g.store != nil {
		g.source = NewCachedSource(g.source, g.store, cfg.Cache.TTL, log)
	}
	if g.proxy == nil {
		proxy, err := NewProxy(cfg.Upstream.URL, log)
		if err != nil {
			return nil, err
		}
		g.proxy = proxy
	}
	return g, nil
}

// Profiles returns the validated profile set.
func (g *Gateway) Profiles() permission.Profiles { return g.profiles }

// Register mounts the API, and the gated GraphQL route when enabled. The
// gated route requires a session token verified by validator.
func (g *Gateway) Register(r gin.IRouter, validator auth.TokenValidator) {
	g.handler.RegisterRoutes(r)
	if !g.cfg.Gate.Enabled {
		return
	}

	profile, _ := g.profiles.Get(g.cfg.Gate.Profile)
	proxy := gin.WrapH(g.proxy)
	authMW := middleware.Auth(middleware.AuthConfig{Validator: validator})
	var gateOpts []GateOption
	if g.auditor != nil {
		gateOpts = append(gateOpts, WithAuditor(g.auditor))
	}
	gate := MutationGate(profile, g.ev, g.source, g.log, gateOpts...)
	r.POST(g.cfg.Gate.Path, authMW, gate, proxy)
	r.GET(g.cfg.Gate.Path, authMW, gate, proxy)

	g.log.Info("Mutation gate enabled", logger.Fields(
		"path", g.cfg.Gate.Path,
		logger.FieldProfile, profile.Name,
		"gated", len(profile.Aliases),
		"cached", g.store != nil,
		"audited", g.auditor != nil,
	))
}

// HealthCheckers returns the checks for /health.
func (g *Gateway) HealthCheckers() []observability.HealthChecker {
	checkers := []observability.HealthChecker{RulesHealth(g.ev)}
	if hc, ok := g.source.(observability.HealthChecker); ok {
		checkers = append(checkers, hc)
	}
	return checkers
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/accessmatrix/errors"
	"github.com/kbukum/accessmatrix/logger"
	"github.com/kbukum/accessmatrix/observability"
	"github.com/kbukum/accessmatrix/permission"
	"github.com/kbukum/accessmatrix/server"
	"github.com/kbukum/accessmatrix/snapshot"
	"github.com/kbukum/accessmatrix/validation"
)

// CheckRequest is the body of POST /v1/permissions/check.
type CheckRequest struct {
	Permission string          `json:"permission" validate:"required,max=128"`
	Profile    string          `json:"profile" validate:"omitempty,max=64"`
	Snapshot   json.RawMessage `json:"snapshot"`
}

// CheckResult is the data of a check response.
type CheckResult struct {
	Permission string `json:"permission"`
	Profile    string `json:"profile"`
	Authorized bool   `json:"authorized"`
}

// Handler serves the permission evaluation API.
type Handler struct {
	ev       *Evaluator
	profiles permission.Profiles
	log      *logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(ev *Evaluator, profiles permission.Profiles, log *logger.Logger) *Handler {
	return &Handler{ev: ev, profiles: profiles, log: log.WithComponent("permissions")}
}

// RegisterRoutes mounts the API under /v1/permissions.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/v1/permissions")
	g.GET("/keys", h.Keys)
	g.POST("/evaluate", h.Evaluate)
	g.POST("/check", h.Check)
}

// Keys lists the canonical permission keys.
func (h *Handler) Keys(c *gin.Context) {
	keys := h.ev.Table().Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	server.RespondOK(c, out)
}

// Evaluate returns the matrix for the snapshot in the body. An empty or
// null body yields the all-false default matrix. With ?profile= the matrix
// is projected onto that profile's names.
func (h *Handler) Evaluate(c *gin.Context) {
	profileName := c.Query("profile")
	var profile permission.Profile
	if profileName != "" {
		p, ok := h.profiles.Get(profileName)
		if !ok {
			server.RespondWithError(c, apperrors.NotFound("profile", profileName))
			return
		}
		profile = p
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		server.RespondWithError(c, bodyError(err, err.Error()))
		return
	}
	snap, err := decodeSnapshot(body)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	m := h.ev.Matrix(c.Request.Context(), profileName, snap)
	if profileName == "" {
		server.RespondOK(c, m.Strings())
		return
	}
	server.RespondOK(c, profile.Select(m))
}

// Check decides one permission under a profile, the client profile by
// default. Unknown permissions are reported as not authorized.
func (h *Handler) Check(c *gin.Context) {
	var req CheckRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		server.RespondWithError(c, bodyError(err, "malformed JSON"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if req.Profile == "" {
		req.Profile = permission.ProfileClient
	}
	profile, ok := h.profiles.Get(req.Profile)
	if !ok {
		server.RespondWithError(c, apperrors.NotFound("profile", req.Profile))
		return
	}
	snap, err := decodeSnapshot(req.Snapshot)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	granted := h.ev.Authorize(ctx, profile, snap, req.Permission)
	if _, known := profile.Resolve(h.ev.Table(), req.Permission); !known {
		h.log.WithContext(ctx).Debug("Check for unexposed permission", logger.Fields(
			logger.FieldPermission, req.Permission,
			logger.FieldProfile, req.Profile,
		))
	}
	server.RespondOK(c, CheckResult{Permission: req.Permission, Profile: req.Profile, Authorized: granted})
}

// decodeSnapshot parses a snapshot document. Absent input means no
// snapshot yet and decodes to nil.
func decodeSnapshot(data []byte) (*snapshot.Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	return snapshot.Parse(data)
}

// RulesHealth reports the loaded rule table.
func RulesHealth(ev *Evaluator) observability.HealthChecker {
	return observability.HealthCheckerFunc(func(context.Context) observability.Health {
		t := ev.Table()
		digest, err := permission.Digest(t)
		if err != nil {
			return observability.Health{Name: "rules", Status: observability.HealthStatusDown, Message: err.Error()}
		}
		return observability.Health{
			Name:   "rules",
			Status: observability.HealthStatusUp,
			Details: map[string]string{
				"keys":   strconv.Itoa(t.Len()),
				"digest": digest,
			},
		}
	})
}

// bodyError maps a failed body read to an AppError. A body cut off by
// http.MaxBytesReader is reported as too large, anything else as invalid
// input with reason.
func bodyError(err error, reason string) *apperrors.AppError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.TooLarge(tooLarge.Limit)
	}
	return apperrors.InvalidInput("body", reason).WithCause(err)
}

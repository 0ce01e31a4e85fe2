package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	apperrors "github.com/kbukum/accessmatrix/errors"
	"github.com/kbukum/accessmatrix/logger"
)

// NewProxy forwards requests to the upstream GraphQL endpoint at target.
// The target path replaces the incoming one; the query string is kept.
func NewProxy(target string, log *logger.Logger) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse upstream url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gateway: upstream url %q is not absolute", target)
	}
	log = log.WithComponent("proxy")

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Scheme = u.Scheme
			pr.Out.URL.Host = u.Host
			pr.Out.URL.Path = u.Path
			pr.Out.URL.RawPath = u.RawPath
			pr.Out.Host = u.Host
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.WithContext(r.Context()).Error("Upstream request failed", logger.ErrorFields("proxy", err))
			apperrors.Upstream(upstreamService, err).WriteJSON(w, logger.RequestIDFromContext(r.Context()))
		},
	}, nil
}

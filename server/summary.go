package server

import (
	"slices"
	"strings"

	"github.com/kbukum/accessmatrix/logger"
)

// Route describes one registered route for the startup log.
type Route struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Handler string `json:"handler"`
}

var systemPaths = map[string]bool{
	"/health":  true,
	"/info":    true,
	"/version": true,
}

// Routes returns the registered Gin routes, API routes first.
func (s *Server) Routes() []Route {
	ginRoutes := s.engine.Routes()
	routes := make([]Route, 0, len(ginRoutes))
	for _, r := range ginRoutes {
		routes = append(routes, Route{Method: r.Method, Path: r.Path, Handler: formatHandlerName(r.Handler)})
	}
	slices.SortFunc(routes, func(a, b Route) int {
		if as, bs := systemPaths[a.Path], systemPaths[b.Path]; as != bs {
			if as {
				return 1
			}
			return -1
		}
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return methodOrder(a.Method) - methodOrder(b.Method)
	})
	return routes
}

// LogRoutes writes one debug line per route.
func (s *Server) LogRoutes() {
	for _, r := range s.Routes() {
		s.log.Debug("Route registered", logger.Fields("method", r.Method, "path", r.Path, "handler", r.Handler))
	}
}

// formatHandlerName turns Gin's handler path such as
// "github.com/x/y/gateway.(*Handler).Evaluate-fm" into "Handler.Evaluate".
func formatHandlerName(fullPath string) string {
	name := strings.TrimSuffix(fullPath, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	for len(parts) > 1 && strings.HasPrefix(parts[len(parts)-1], "func") {
		parts = parts[:len(parts)-1]
	}
	if len(parts) > 1 && strings.ToLower(parts[0]) == parts[0] {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}

package bootstrap

import (
	"fmt"
	"io"
	"os"
	"time"
)

// InfrastructureInfo describes one piece of infrastructure the service
// started, such as the HTTP server or the rule table.
type InfrastructureInfo struct {
	Name    string
	Details string
	Port    int
	Healthy bool
}

// RouteInfo represents a registered HTTP route.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
}

// ClientInfo represents an external dependency the service calls.
type ClientInfo struct {
	Name   string
	Target string
	Type   string
}

// Summary collects what the service started and prints it once startup
// completes.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	infrastructure  []InfrastructureInfo
	routes          []RouteInfo
	clients         []ClientInfo
	out             io.Writer
}

// NewSummary creates a summary printing to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version, out: os.Stdout}
}

// SetOutput redirects Display.
func (s *Summary) SetOutput(w io.Writer) { s.out = w }

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackInfrastructure records a started piece of infrastructure.
func (s *Summary) TrackInfrastructure(name, details string, port int, healthy bool) {
	s.infrastructure = append(s.infrastructure, InfrastructureInfo{
		Name:    name,
		Details: details,
		Port:    port,
		Healthy: healthy,
	})
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path, handler string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path, Handler: handler})
}

// TrackClient records an external dependency.
func (s *Summary) TrackClient(name, target, clientType string) {
	s.clients = append(s.clients, ClientInfo{Name: name, Target: target, Type: clientType})
}

// Display prints the summary.
func (s *Summary) Display() {
	w := s.out
	fmt.Fprintf(w, "\n%s %s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if len(s.infrastructure) > 0 {
		fmt.Fprintf(w, "\nInfrastructure\n")
		for i, inf := range s.infrastructure {
			details := inf.Details
			if inf.Port > 0 {
				details = fmt.Sprintf("%s (:%d)", details, inf.Port)
			}
			fmt.Fprintf(w, "   %s %s %s: %s\n", treePrefix(i, len(s.infrastructure)), healthMark(inf.Healthy), inf.Name, details)
		}
	}

	if len(s.clients) > 0 {
		fmt.Fprintf(w, "\nClients\n")
		for i, c := range s.clients {
			fmt.Fprintf(w, "   %s %s -> %s [%s]\n", treePrefix(i, len(s.clients)), c.Name, c.Target, c.Type)
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\nRoutes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Fprintf(w, "   %s %-7s %s -> %s\n", treePrefix(i, len(s.routes)), r.Method, r.Path, r.Handler)
		}
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthMark(healthy bool) string {
	if healthy {
		return "ok"
	}
	return "!!"
}

// Package version reports build information embedded at link time:
//
//	go build -ldflags "-X github.com/kbukum/accessmatrix/version.Version=1.4.0"
//
// Values not set by -ldflags fall back to the module's VCS build settings.
package version

package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
)

// Info represents version information.
type Info struct {
	Version    string            `json:"version"`
	GitCommit  string            `json:"git_commit,omitempty"`
	GitBranch  string            `json:"git_branch,omitempty"`
	BuildTime  string            `json:"build_time,omitempty"`
	GoVersion  string            `json:"go_version"`
	IsRelease  bool              `json:"is_release"`
	IsDirty    bool              `json:"is_dirty"`
	Components map[string]string `json:"components,omitempty"`
}

// Get returns the version information of the running binary.
func Get() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		BuildTime: BuildTime,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = buildInfo.GoVersion
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = shortCommit(setting.Value)
				}
			case "vcs.modified":
				info.IsDirty = setting.Value == "true"
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = setting.Value
				}
			}
		}
	}
	return info
}

// With records the version of a named component, such as the rule table
// digest, and returns the receiver.
func (i *Info) With(component, v string) *Info {
	if i.Components == nil {
		i.Components = make(map[string]string)
	}
	i.Components[component] = v
	return i
}

// BuildDate parses BuildTime, returning the zero time if unset or malformed.
func (i *Info) BuildDate() time.Time {
	t, err := time.Parse(time.RFC3339, i.BuildTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Short returns "version[-commit][-dirty]".
func (i *Info) Short() string {
	if i.GitCommit == "" {
		return i.Version
	}
	s := i.Version + "-" + i.GitCommit
	if i.IsDirty {
		s += "-dirty"
	}
	return s
}

// String returns a detailed one-line description.
func (i *Info) String() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.GitBranch != "" && i.GitBranch != "main" && i.GitBranch != "master" {
		parts = append(parts, i.GitBranch)
	}
	if i.IsDirty {
		parts = append(parts, "dirty")
	}
	s := strings.Join(parts, "-")
	if d := i.BuildDate(); !d.IsZero() {
		s += fmt.Sprintf(" (built %s)", d.UTC().Format(time.RFC3339))
	}
	return s
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

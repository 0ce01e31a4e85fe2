package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBranch, origBuildTime := Version, GitCommit, GitBranch, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		GitBranch = origBranch
		BuildTime = origBuildTime
	}
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
	if info.GoVersion == "" {
		t.Error("expected Go version from build info")
	}
}

func TestGetWithLinkerValues(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.4.0"
	BuildTime = "2026-01-15T10:30:00Z"
	GitCommit = "abc1234"
	GitBranch = "main"

	info := Get()
	if !info.IsRelease {
		t.Error("1.4.0 should be a release")
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("expected 'abc1234', got %q", info.GitCommit)
	}
	if info.BuildDate().Year() != 2026 {
		t.Errorf("expected build year 2026, got %d", info.BuildDate().Year())
	}
}

func TestDirtyVersionIsNotRelease(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.4.0-dirty"
	if Get().IsRelease {
		t.Error("dirty version should not be a release")
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.4.0", GitCommit: "abc1234"}, "1.4.0-abc1234"},
		{Info{Version: "1.4.0", GitCommit: "abc1234", IsDirty: true}, "1.4.0-abc1234-dirty"},
	}
	for _, tc := range tests {
		if got := tc.info.Short(); got != tc.want {
			t.Errorf("Short() = %q, want %q", got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	info := Info{Version: "1.4.0", GitCommit: "abc1234", GitBranch: "main", BuildTime: "2026-01-15T10:30:00Z"}
	s := info.String()
	if !strings.HasPrefix(s, "1.4.0-abc1234") {
		t.Errorf("unexpected prefix in %q", s)
	}
	if strings.Contains(s, "main") {
		t.Errorf("main branch should not appear, got %q", s)
	}
	if !strings.Contains(s, "built 2026-01-15T10:30:00Z") {
		t.Errorf("expected build date, got %q", s)
	}

	info.GitBranch = "feature/profiles"
	if !strings.Contains(info.String(), "feature/profiles") {
		t.Errorf("expected feature branch, got %q", info.String())
	}

	if got := (&Info{Version: "dev", BuildTime: "garbage"}).String(); got != "dev" {
		t.Errorf("expected bare 'dev', got %q", got)
	}
}

func TestWith(t *testing.T) {
	info := (&Info{Version: "dev"}).With("rules", "sha256:abcd")
	if info.Components["rules"] != "sha256:abcd" {
		t.Errorf("expected rules component, got %v", info.Components)
	}
}

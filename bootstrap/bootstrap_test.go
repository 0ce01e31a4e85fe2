package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/accessmatrix/config"
	"github.com/kbukum/accessmatrix/logger"
	"github.com/kbukum/accessmatrix/observability"
)

type testConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	cfg := &testConfig{}
	cfg.Name = "test-svc"
	cfg.Version = "1.2.3"
	app, err := NewApp(cfg, append([]Option{WithLogger(logger.Nop())}, opts...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	app.Summary.SetOutput(&bytes.Buffer{})
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "test-svc" || app.Version != "1.2.3" {
		t.Errorf("unexpected identity %s %s", app.Name, app.Version)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected defaults applied, got environment %q", app.Cfg.Environment)
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("expected default graceful timeout, got %v", app.gracefulTimeout)
	}
}

func TestNewAppValidation(t *testing.T) {
	_, err := NewApp(&testConfig{}, WithLogger(logger.Nop()))
	if err == nil || !strings.Contains(err.Error(), "config validation") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app := newTestApp(t, WithGracefulTimeout(time.Second))
	if app.gracefulTimeout != time.Second {
		t.Errorf("expected 1s, got %v", app.gracefulTimeout)
	}
}

func TestRunTaskHookOrder(t *testing.T) {
	app := newTestApp(t)
	var order []string
	record := func(name string) Hook {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}
	app.OnStart(record("start"))
	app.OnReady(record("ready"))
	app.OnStop(record("stop-1"), record("stop-2"))

	err := app.RunTask(context.Background(), func(context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "start,ready,task,stop-2,stop-1"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRunTaskErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("task error wins", func(t *testing.T) {
		app := newTestApp(t)
		app.OnStop(func(context.Context) error { return errors.New("stop") })
		err := app.RunTask(context.Background(), func(context.Context) error { return boom })
		if !errors.Is(err, boom) {
			t.Errorf("expected task error, got %v", err)
		}
	})

	t.Run("stop error reported", func(t *testing.T) {
		app := newTestApp(t)
		app.OnStop(func(context.Context) error { return boom })
		err := app.RunTask(context.Background(), func(context.Context) error { return nil })
		if !errors.Is(err, boom) {
			t.Errorf("expected stop error, got %v", err)
		}
	})

	t.Run("start error skips task but runs stop", func(t *testing.T) {
		app := newTestApp(t)
		stopped := false
		app.OnStart(func(context.Context) error { return boom })
		app.OnStop(func(context.Context) error { stopped = true; return nil })
		err := app.RunTask(context.Background(), func(context.Context) error {
			t.Error("task must not run")
			return nil
		})
		if !errors.Is(err, boom) {
			t.Errorf("expected start error, got %v", err)
		}
		if !stopped {
			t.Error("expected stop hooks to run")
		}
	})
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app := newTestApp(t)
	stopped := make(chan struct{})
	app.OnStop(func(context.Context) error { close(stopped); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	<-stopped
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t)
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("expected no error without checkers, got %v", err)
	}

	app.AddHealthCheckers(
		observability.HealthCheckerFunc(func(context.Context) observability.Health {
			return observability.Health{Name: "rules", Status: observability.HealthStatusUp}
		}),
		observability.HealthCheckerFunc(func(context.Context) observability.Health {
			return observability.Health{Name: "upstream", Status: observability.HealthStatusDown, Message: "circuit open"}
		}),
	)
	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "upstream=down(circuit open)") {
		t.Errorf("expected upstream failure, got %v", err)
	}
}

func TestSummaryDisplay(t *testing.T) {
	s := NewSummary("permission-gateway", "v1.0.0")
	var buf bytes.Buffer
	s.SetOutput(&buf)
	s.SetStartupDuration(1500 * time.Millisecond)
	s.TrackInfrastructure("HTTP server", "gin+h2c", 8080, true)
	s.TrackInfrastructure("Rules", "38 keys", 0, true)
	s.TrackClient("upstream", "https://api.example.com/graphql", "graphql")
	s.TrackRoute("GET", "/v1/permissions/keys", "Handler.Keys")
	s.Display()

	out := buf.String()
	for _, want := range []string{
		"permission-gateway v1.0.0 started in 1.50s",
		"├── ok HTTP server: gin+h2c (:8080)",
		"└── ok Rules: 38 keys",
		"upstream -> https://api.example.com/graphql [graphql]",
		"Routes (1)",
		"/v1/permissions/keys -> Handler.Keys",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

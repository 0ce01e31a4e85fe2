// Command permission-gateway serves the permission matrix over HTTP and,
// when the gate is enabled, guards the banking GraphQL endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/accessmatrix/auth"
	"github.com/kbukum/accessmatrix/bootstrap"
	"github.com/kbukum/accessmatrix/config"
	"github.com/kbukum/accessmatrix/gateway"
	"github.com/kbukum/accessmatrix/kafka/producer"
	"github.com/kbukum/accessmatrix/logger"
	"github.com/kbukum/accessmatrix/observability"
	"github.com/kbukum/accessmatrix/permission"
	"github.com/kbukum/accessmatrix/redis"
	"github.com/kbukum/accessmatrix/server"
	"github.com/kbukum/accessmatrix/snapshot"
	"github.com/kbukum/accessmatrix/version"
)

const (
	serviceName = "permission-gateway"
	envPrefix   = "PERMGW"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	configFile := flags.StringP("config", "c", "", "path to the config file")
	envFile := flags.String("env-file", "", "path to a .env file")
	showVersion := flags.BoolP("version", "v", false, "print the version and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Println(version.Get().String())
		return nil
	}

	opts := []config.LoaderOption{
		config.WithEnvPrefix(envPrefix),
		config.WithDefaults(map[string]any{
			"name":    serviceName,
			"version": version.Get().Short(),
		}),
	}
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}

	var cfg gateway.ServiceConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	shutdownTelemetry, err := observability.Init(ctx, cfg.Observability, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	app.OnStop(bootstrap.Hook(shutdownTelemetry))

	ev, err := gateway.NewDefaultEvaluator()
	if err != nil {
		return err
	}
	digest, err := permission.Digest(ev.Table())
	if err != nil {
		return err
	}

	var validator auth.TokenValidator
	if cfg.Auth.Enabled {
		validator, err = auth.NewSessionValidator(&cfg.Auth)
		if err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	var gwOpts []gateway.Option
	if cfg.Gateway.Cache.Enabled {
		client, err := redis.New(cfg.Redis, app.Logger)
		if err != nil {
			return err
		}
		app.OnStop(func(context.Context) error { return client.Close() })
		app.AddHealthCheckers(client)
		cipher, err := cfg.Gateway.Cache.NewCipher()
		if err != nil {
			return err
		}
		var storeOpts []redis.StoreOption
		details := "snapshot cache, ttl " + cfg.Gateway.Cache.TTL.String()
		if cipher != nil {
			storeOpts = append(storeOpts, redis.WithCipher(cipher))
			details += ", " + cfg.Gateway.Cache.Cipher
		}
		app.Summary.TrackInfrastructure("redis", details, 0, true)
		store := redis.NewTypedStore[snapshot.Snapshot](client, cfg.Gateway.Cache.KeyPrefix, storeOpts...)
		gwOpts = append(gwOpts, gateway.WithCache(store))
	}
	if cfg.Gateway.Audit.Enabled {
		p, err := producer.New(cfg.Kafka, app.Logger)
		if err != nil {
			return err
		}
		pub := producer.NewPublisher(p)
		app.OnStop(func(context.Context) error { return pub.Close() })
		app.Summary.TrackClient("kafka", cfg.Gateway.Audit.Topic, "audit")
		gwOpts = append(gwOpts, gateway.WithDecisionAuditor(
			gateway.NewKafkaAuditor(pub, cfg.Gateway.Audit, cfg.Name, logger.Get("gateway")),
		))
	}

	gw, err := gateway.New(cfg.Gateway, cfg.Permissions, ev, logger.Get("gateway"), gwOpts...)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyMiddleware()
	gw.Register(srv.GinEngine(), validator)
	info := func() *version.Info { return version.Get().With("rules", digest) }
	srv.RegisterDefaultEndpoints(cfg.Name, cfg.Environment, info, gw.HealthCheckers()...)
	app.AddHealthCheckers(gw.HealthCheckers()...)

	app.Summary.TrackInfrastructure("rules", fmt.Sprintf("%d permissions, digest %s", ev.Table().Len(), digest), 0, true)
	app.Summary.TrackInfrastructure("auth", cfg.Auth.Describe(), 0, true)
	app.Summary.TrackInfrastructure("http", srv.Addr(), cfg.Server.Port, true)
	if cfg.Gateway.Gate.Enabled {
		app.Summary.TrackClient("upstream", cfg.Gateway.Upstream.URL, "graphql")
	}
	for _, r := range srv.Routes() {
		app.Summary.TrackRoute(r.Method, r.Path, r.Handler)
	}
	srv.LogRoutes()

	app.OnStart(srv.Start)
	app.OnStop(srv.Stop)
	return app.Run(ctx)
}

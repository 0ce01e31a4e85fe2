// Package bootstrap runs a service's lifecycle: typed configuration,
// logger setup, start/ready/stop hooks, a startup summary, and graceful
// shutdown on SIGINT or SIGTERM.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStart(func(ctx context.Context) error { return srv.Start(ctx) })
//	app.OnStop(srv.Stop)
//	err = app.Run(ctx)
package bootstrap

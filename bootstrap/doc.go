// Package bootstrap runs the lifecycle of the cascade binaries.
//
// NewApp validates a config embedding config.ServiceConfig and initializes
// logging. Components registered on the app start in order; Run blocks
// until SIGINT/SIGTERM (the node daemon) while RunTask executes a finite
// task (a one-shot cascade) and shuts down afterwards.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(server.NewComponent(srv))
//	return app.Run(ctx)
package bootstrap

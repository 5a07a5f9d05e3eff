// Package app wires the DataViz server together: configuration, logging,
// OpenTelemetry, the dataset session store, services and the chi router.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, the YAML file and DATAVIZ_* variables
//	2. Initialize the slog logger and OpenTelemetry providers
//	3. Create the session store and register its gauge
//	4. Initialize the explorer and health services
//	5. Mount handlers under /api and the Prometheus handler at /metrics
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    os.Exit(1)
//	}
//	if err := application.Run(); err != nil {
//	    os.Exit(1)
//	}
//
// Tests build the application with New and a prepared config, then drive
// Router directly or call Serve with their own listener.
//
// # Graceful Shutdown
//
// Run stops on SIGINT or SIGTERM. In-flight requests finish within the
// configured shutdown timeout and telemetry providers are flushed.
// Initialization errors are returned; the package never calls os.Exit.
package app

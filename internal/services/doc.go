// Package services implements the business logic layer of DataViz. It sits
// between the HTTP handlers and the dataset, inspect, filter and plot
// packages, so request handling stays free of pipeline rules.
//
// # Available Services
//
//	- ExplorerService: uploads datasets into sessions, inspects and filters
//	  them, and renders plots as PNG images
//	- HealthService: liveness, readiness and version reporting
//
// # Error Handling
//
// Every error returned by a service wraps one of the sentinels in errors.go
// together with its lower-level cause:
//
//	_, err := svc.Plot(ctx, id, req)
//	errors.Is(err, services.ErrInvalidPlot)  // true
//	errors.Is(err, plot.ErrMissingAxis)      // true
//
// The transport layer maps the sentinels onto RFC 7807 problems.
//
// # Observability
//
// ExplorerService opens one span per operation and records the dataviz_*
// metrics through infrastructure.Metrics. Both are optional; without them the
// global tracer is used and metrics are skipped.
package services

// Package config loads the dataviz service configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. A YAML file: the path in DATAVIZ_CONFIG, else config.yaml or
//     configs/config.yaml in the working directory
//  3. Default values from the struct tags (lowest priority)
//
// # Environment Variables
//
// Variables follow the section layout under the DATAVIZ prefix:
//
//	DATAVIZ_SERVER_PORT=8080
//	DATAVIZ_SECURITY_ALLOWED_ORIGINS=http://localhost:3000,https://viz.example.com
//	DATAVIZ_SESSION_TTL=45m
//	DATAVIZ_UPLOAD_MAX_BYTES=104857600
//	DATAVIZ_RENDER_WIDTH=1024
//	DATAVIZ_OBSERVABILITY_ENABLE_TRACING=true
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := dataset.NewStore(dataset.StoreConfig{
//	    TTL:         cfg.Session.TTL,
//	    MaxSessions: cfg.Session.MaxSessions,
//	}, logger)
//
// Load validates the result; an invalid port, a non-positive session TTL or
// an empty extension list fails fast at startup.
package config

// Package http implements the HTTP handlers of the DataViz API. Handlers are
// a thin layer: they decode and validate requests, call the services and
// format responses.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → ExplorerService
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Responses
//
// JSON endpoints answer with the success envelope:
//
//	{"status": "success", "data": {...}, "count": 3}
//
// Plots are served as image/png and filtered rows as text/csv, both with a
// Content-Disposition attachment header.
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details and are produced by
// apierrors.ErrorHandler:
//
//	{
//	    "type": "/errors/missing-axis",
//	    "title": "Missing Axis",
//	    "status": 422,
//	    "detail": "Please select valid columns for both X and Y axes.",
//	    "instance": "/api/datasets/3f1c.../plots"
//	}
//
// # Testing
//
// Handlers are tested with httptest against a testify mock of
// ExplorerServiceInterface.
package http

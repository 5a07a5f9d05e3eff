// Package shared holds helpers used across the dataviz packages that do not
// belong to any domain layer.
//
// The testutil subpackage provides:
//
//   - a buffered slog handler for asserting on log output;
//   - dataset fixtures as raw CSV text, so packages below the dataset layer
//     can use them without an import cycle.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    svc := NewThing(logger)
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "Dataset loaded")
//	}
//
// Nothing here carries business logic or third-party dependencies.
package shared

// Package diag defines the diagnostic model shared by the symbol layer, the
// inference engine and the session driver.
//
// A Diagnostic carries a Severity, a Code (codes.go) whose ID prefix names
// the layer that produced it (SYM for symbol loading and signatures, INF for
// overload resolution and inference, IO and PRJ for the driver), a message,
// the primary span and optional notes and fixes. Stub diagnostics point into
// the index file that declared the broken signature.
//
// Producers talk to a Reporter, usually through ReportError or
// ReportWarning and Emit. BagReporter collects into a Bag; sessions put a
// SyncReporter in front of it because the registry is shared between
// goroutines.
package diag

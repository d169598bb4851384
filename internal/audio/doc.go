// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package audio implements the two leaf operations of the benchmark:
// concatenating two clips end to end and superimposing them.
//
// Every operation runs in its own work area. Inputs are staged there first,
// the external tool writes its raw output there, and only a complete artifact
// is promoted to the destination. A failure never creates or truncates the
// destination, and the work area is removed on every exit path.
package audio

// Package domain defines the core REPL domain models.
//
// Domain models carry no IO dependencies. This package contains:
//
//   - Session: per-REPL mutable state (namespace, prompt, pending input, raw lines)
//   - Sequence: monotonically increasing id issuer shared by concurrent owners
//   - Exit keywords recognised by local and remote sessions
//   - Errors: domain-specific error definitions
package domain

// Package service provides the REPL domain services.
//
// Services orchestrate operations on domain models and define interfaces
// for the external collaborators they drive, allowing for dependency
// injection and testability.
//
// This package contains:
//
//   - Prompter: primary and secondary prompt formatting
//   - Accumulator: multi-line input buffering, exit detection, history
//     recording and dispatch of complete forms to the Evaluator
//
// Collaborators consumed here (Evaluator, CompletenessChecker, Indenter,
// HistoryStore) are implemented elsewhere; the Accumulator never parses or
// evaluates source itself.
package service

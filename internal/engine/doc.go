// Package engine provides a loopback Evaluator.
//
// Loopback does not implement a language. It echoes each form back in the
// requested theme and understands just enough to drive the front end:
// namespace switches, exit requests and asynchronous tap output. It stands
// in for a real evaluation engine in the binary and in tests.
package engine

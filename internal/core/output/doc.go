// Package output serialises every write that reaches the terminal or a
// socket connection.
//
// A single Synchronizer is shared by the local loop, the socket server and
// the highlight engine. Evaluations run while the lock is held, so
// asynchronous engine output emitted from other goroutines waits until the
// running evaluation finishes and then lands on whichever route is active.
package output

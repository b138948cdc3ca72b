// Package socketrepl serves REPL sessions over plain TCP connections.
//
// The protocol is line oriented: the server writes the primary prompt on
// accept, reads newline-terminated lines (a trailing carriage return is
// dropped), and after each line writes the session's current prompt. There
// is no framing beyond that, so nc and telnet work as clients.
//
// Every connection owns one Session. Lines are processed under the shared
// output lock with the connection installed as the output route, so
// asynchronous engine output produced during an evaluation reaches the
// client that asked for it.
package socketrepl

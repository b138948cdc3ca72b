// Package connection attaches a terminal to a running socket REPL.
//
// SocketClient dials the server, then copies the user's input to the
// connection and the server's prompts and results back until either side
// closes. It backs the connect subcommand.
package connection

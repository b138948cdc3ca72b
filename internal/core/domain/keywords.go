package domain

const (
	// QuitToken ends any session.
	QuitToken = ":cljs/quit"

	// RemoteQuitToken ends a socket session; it has no meaning locally.
	RemoteQuitToken = ":repl/quit"

	// EndOfInputMarker is the Ctrl-D byte as it arrives over a dumb stream.
	EndOfInputMarker = "\x04"
)

// IsExitCommand reports whether the pending buffer is an exit keyword.
// RemoteQuitToken is honoured only when remote is true.
func IsExitCommand(input string, remote bool) bool {
	switch input {
	case QuitToken, "quit", "exit", EndOfInputMarker:
		return true
	case RemoteQuitToken:
		return remote
	}
	return false
}

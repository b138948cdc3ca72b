// Package shutdown coordinates process teardown for replfront.
//
// Components register hooks with OnShutdown; Shutdown runs them once, in
// reverse registration order, under a shared timeout. Watch turns SIGTERM
// and SIGHUP into a Shutdown call. SIGINT never shuts down: Interrupts hands
// it to the local REPL, which discards the pending input instead.
//
// Usage:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(server.Shutdown)
//	stop := h.Watch(ctx, nil)
//	defer stop()
//	defer h.Shutdown()
package shutdown

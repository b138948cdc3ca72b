// Package buildinfo exposes build information for replfront.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/replfront/internal/infra/buildinfo.Version=v0.3.0"
//
// When Commit is not injected it falls back to the VCS revision the Go
// toolchain stamps into the binary.
package buildinfo

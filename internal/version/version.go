// Package version records the binary's version.
package version

// Version is overridable at build time:
//
//	go build -ldflags "-X github.com/mekorot-project/mekorot/internal/version.Version=v0.3.0"
var Version = "v0.2.1"

// String returns the full version line
func String() string {
	return "mekorot " + Version
}

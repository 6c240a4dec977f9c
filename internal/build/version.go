package build

import "fmt"

// Set at link time with -ldflags "-X github.com/rohmanhakim/newsguard/internal/build.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion returns the version string with commit hash appended.
// Format: "Version+Commit" (e.g., "1.0.0+abc123")
func FullVersion() string {
	return Version + "+" + Commit
}

// Info is the line printed by `newsguard version`.
func Info() string {
	return fmt.Sprintf("newsguard %s (built %s)", FullVersion(), BuildTime)
}

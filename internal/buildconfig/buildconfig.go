package buildconfig

// Build-time variables injected via ldflags:
//
//	-X github.com/factlock/factlock/internal/buildconfig.version=...
//	-X github.com/factlock/factlock/internal/buildconfig.commit=...
var (
	version = "dev"
	commit  = "unknown"
)

// Version returns the build version.
func Version() string {
	return version
}

// Commit returns the git commit hash.
func Commit() string {
	return commit
}

// VersionInfo returns full version information for the metrics endpoint.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
	}
}

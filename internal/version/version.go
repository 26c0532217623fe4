package version

// Version information set via ldflags at build time
var (
	Version   = "dev"     // -X 'github.com/tobilg/dashconv/internal/version.Version=...'
	GitCommit = "unknown" // -X 'github.com/tobilg/dashconv/internal/version.GitCommit=...'
	BuildDate = "unknown" // -X 'github.com/tobilg/dashconv/internal/version.BuildDate=...'
)

// String formats the build metadata for the version command and the health endpoint
func String() string {
	return Version + " (commit " + GitCommit + ", built " + BuildDate + ")"
}

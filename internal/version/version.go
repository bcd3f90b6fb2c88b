// Package version provides build-time version information.
package version

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "0.3.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Name is the application name shown in titles and sent as the User-Agent product.
const Name = "lux-resonans"

// UserAgent identifies this client to the calculation service.
func UserAgent() string {
	return Name + "/" + Version
}

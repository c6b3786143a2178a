// Package version carries build identification, overridden at link time:
//
//	go build -ldflags "-X smole/internal/version.Version=v1.2.0 \
//	  -X smole/internal/version.GitSHA=$(git rev-parse --short HEAD)"
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String renders the version for startup logs and the params endpoint.
func String() string {
	return fmt.Sprintf("%s (%s)", Version, GitSHA)
}

// Package version exposes the build information of the cascade binary.
//
// Values are stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/cascade/version.Version=1.2.0 \
//	  -X github.com/kbukum/cascade/version.GitCommit=$(git rev-parse --short HEAD)"
//
// It backs the CLI --version flag, the /version endpoint, and the
// User-Agent of outbound cascade calls.
package version

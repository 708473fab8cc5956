package build

// Set at link time with -ldflags "-X github.com/bjornrobertsson/coderttl/build.Version=..."
var (
	Version = "0.1.0"
	Date    = "unknown"
)

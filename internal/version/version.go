package version

// Version is the current version of the argo-features library.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-features/internal/version.Version=1.2.3"
// Builds without the flag report the config format version the code was written against.
var Version = "v1.0.0"

// GetVersion returns the current version of the library.
func GetVersion() string {
	return Version
}

package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// CheckConfigCompatibility checks if a pipeline config written for configVersion can be run by
// a library at libraryVersion. Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - The config minor version must not be newer than the library minor version
//   - Patch versions can differ
//
// Examples:
//   - Library 1.2.0, Config 1.2.0 -> OK (exact match)
//   - Library 1.3.0, Config 1.2.0 -> OK (older config)
//   - Library 1.2.0, Config 1.3.0 -> ERROR (config needs a newer library)
//   - Library 2.0.0, Config 1.2.0 -> ERROR (major differs)
//   - Library main, Config 1.2.0 -> OK (dev build, skip check)
func CheckConfigCompatibility(libraryVersion, configVersion string) error {
	// Strip 'v' prefix if present for consistency
	libraryVersion = strings.TrimPrefix(libraryVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	// Skip version check for "main" (development builds)
	if libraryVersion == "main" || configVersion == "main" {
		return nil
	}

	librarySemver, err := semver.NewVersion(libraryVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid library version '%s'", libraryVersion)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid config version '%s'", configVersion)
	}

	if librarySemver.Major() != configSemver.Major() {
		return errors.Newf(errors.ErrCodeInvalidVersion, "major version mismatch: library is %d.x.x but config requires %d.x.x",
			librarySemver.Major(), configSemver.Major())
	}

	if configSemver.Minor() > librarySemver.Minor() {
		return errors.Newf(errors.ErrCodeInvalidVersion, "config requires %d.%d.x but library is %d.%d.x",
			configSemver.Major(), configSemver.Minor(),
			librarySemver.Major(), librarySemver.Minor())
	}

	return nil
}

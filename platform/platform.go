// Package platform decides whether a platform can traverse its asset bundle
// directly or must go through the manifest.
package platform

import (
	"runtime"
	"strings"
)

// Android is the identifier of the only platform known to package assets
// inside an archive that supports whole-file fetches but no listing.
const Android = "android"

// RequiresManifest reports whether assets on the platform identified by id
// must be located through the manifest. Identifiers are GOOS-style names and
// are compared case-insensitively.
func RequiresManifest(id string) bool {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case Android:
		return true
	default:
		return false
	}
}

// Current returns the identifier of the running platform.
func Current() string {
	return runtime.GOOS
}

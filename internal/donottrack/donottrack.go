// Package donottrack answers whether the current process has opted out of
// usage tracking.
package donottrack

import (
	"os"
	"strings"
)

// EnvVar follows the consoledonottrack.com convention.
const EnvVar = "DO_NOT_TRACK"

// Oracle is evaluated once, when a client is constructed.
type Oracle func() bool

// FromEnv reports true when DO_NOT_TRACK is 1, true or yes.
func FromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvVar))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func Always() bool { return true }

func Never() bool { return false }

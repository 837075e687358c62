// Package version reports the module's semantic version trio.
package version

import "fmt"

const (
	Major = 0
	Minor = 1
	Patch = 0
)

// String returns "major.minor.patch".
func String() string {
	return fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}

// Package buildinfo holds release metadata stamped in at link time.
package buildinfo

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set by ldflags during release builds, e.g.
// -X github.com/f4ah6o/devshot/internal/buildinfo.Version=v1.2.0
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the one-line version banner for the named binary.
func String(name string) string {
	return fmt.Sprintf("%s %s (commit=%s, date=%s)", name, Version, Commit, Date)
}

// Apply makes cmd's --version flag print String(name) and nothing else.
func Apply(cmd *cobra.Command, name string) {
	cmd.Version = String(name)
	cmd.SetVersionTemplate("{{.Version}}\n")
}

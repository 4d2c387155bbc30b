package cmd

import (
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/spf13/cobra"
)

// version is fixed at build time in release builds; development
// builds report 0.0.0-dev.
var version = semver.MustParse("0.0.0-dev")

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print vizhc's version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

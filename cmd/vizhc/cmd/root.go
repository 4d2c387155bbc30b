package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd is the base command when vizhc is called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "vizhc",
	Short: "Compile vizh source images into native executables",
	Long: `vizhc turns vizh source images into portable C and drives a
system C toolchain to link them into a native executable:
  - parse one or more source images into an intermediate representation
  - lower that representation to C, linking against libv
  - optionally render a debug image localising parse failures to pixels`,
}

// Execute runs the root command; called once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "vizh.yml", "build settings file")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vizh-lang/vizh"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or initialise vizh.yml build settings",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a vizh.yml populated with the default build settings",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg := vizh.DefaultConfig()
		if err := cfg.Save(cfgFile); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", cfgFile)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the build settings that would be used",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := vizh.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", cfg)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

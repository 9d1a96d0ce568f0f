package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stock-console/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize stockconsole configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the console and generates a .stockconsole.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

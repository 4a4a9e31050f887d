package main

import (
	"github.com/HelioTeam/helio-go-node/cmd/helio/cmd"
	"github.com/HelioTeam/helio-go-node/cmd/utils"
)

func main() {
	rootCmd := cmd.RootCmd
	rootCmd.PersistentFlags().StringVar(&utils.HelioHome, "home-dir", "", "base dir (default is $HOME/.helio)")
	rootCmd.PersistentFlags().StringVar(&utils.HelioConfig, "config", "", "path to config.toml")

	rootCmd.AddCommand(
		cmd.Version,
		cmd.ExportCommand)

	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}

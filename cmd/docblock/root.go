package main

import (
	"github.com/nihei9/docblock/config"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	config *string
	color  *string
}{}

var rootCmd = &cobra.Command{
	Use:   "docblock",
	Short: "Parse docblock comments",
	Long: `docblock provides the following features:
- Parses a docblock comment into its text and tags.
- Tokenizes a docblock comment. This feature is primarily aimed at debugging.
- Generates parse tables of the docblock grammar and describes how they were built.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootFlags.config = rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (TOML)")
	rootFlags.color = rootCmd.PersistentFlags().String("color", "", "colorize diagnostics: auto, always, or never")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), colorMode(), err)
		return err
	}
	return nil
}

// loadConfig reads the config file given by --config and applies flags common to all commands.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.Default()
	if *rootFlags.config != "" {
		var err error
		c, err = config.Load(*rootFlags.config)
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("color") {
		c.Output.Color = *rootFlags.color
	}
	err := c.Validate()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// colorMode decides the color mode of diagnostics even when the config file is broken.
func colorMode() string {
	if *rootFlags.color != "" {
		return *rootFlags.color
	}
	if *rootFlags.config != "" {
		c, err := config.Load(*rootFlags.config)
		if err == nil {
			return c.Output.Color
		}
	}
	return config.ColorAuto
}

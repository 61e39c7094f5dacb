// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the confmine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the confmine CLI.
var rootCmd = &cobra.Command{
	Use:   "confmine",
	Short: "Mine conference proceedings for abstracts and keyword trends",
	Long: `confmine scrapes conference-proceedings metadata from a bibliographic
index, resolves paper abstracts from each paper's landing page, and runs
lexical analysis over the resulting corpus.

Each pipeline stage is a subcommand: scrape, abstracts, keywords, topics,
and wordcloud. All durable state lives in flat CSV files, so any stage can
be re-run or resumed independently.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./confmine.yaml or ~/.config/confmine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("confmine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "confmine"))
		}
	}

	viper.SetEnvPrefix("CONFMINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a string option: explicit flag value first, then
// the config file, then the built-in fallback.
func stringSetting(flagVal, viperKey, fallback string) string {
	if flagVal != "" {
		return flagVal
	}
	if v := viper.GetString(viperKey); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"salespilot/internal/logging"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "salespilot",
		Short: "Salespilot - conversational analytics over a CRM sales database",
		Long: `Salespilot is a conversational analytics assistant for a small relational
sales database. Ask natural-language questions and the assistant decides which
read-only tools to run (ad-hoc SQL, the open-work report, or scored contact
recommendations) and synthesizes an answer.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(openWorkCmd)

	askCmd.Flags().String("agent", "", "Acting sales agent (defaults to config default_agent)")

	evalCmd.Flags().String("agent", "", "Default sales agent for cases that don't specify one")
	evalCmd.Flags().String("category", "", "Only run cases in this category (e.g. recommendations, follow_up)")
	evalCmd.Flags().String("golden", "", "Path to an external golden set YAML (defaults to the embedded set)")

	loadCmd.Flags().String("data", "data", "Directory containing the CRM CSV files")

	recommendCmd.Flags().IntP("n", "n", 3, "Number of recommendations")
	recommendCmd.Flags().String("sector", "", "Filter to one industry sector")

	openWorkCmd.Flags().String("agent", "", "Sales agent to report on (defaults to config default_agent)")
	openWorkCmd.Flags().Int("limit", 25, "Maximum number of items")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SALESPILOT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Printf("Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func initLogging() {
	logging.Initialize(viper.GetBool("debug"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

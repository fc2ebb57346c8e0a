// Package main provides the tailorcv command-line interface.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tailorcv",
	Short: "Tailor a modular resume to a job description",
	Long:  "tailorcv rewrites a modular YAML resume into a Markdown resume tailored to a specific job description, using company research and LLM-driven sentence construction.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

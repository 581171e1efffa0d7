// Package cmd provides CLI commands for the Relay agent server.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Relay - a conversational AI agent server",
	Long:  `Relay serves a conversational AI agent with session memory, a seeded knowledge base, and a plugin system over HTTP.`,
}

func Execute() error {
	return rootCmd.Execute()
}

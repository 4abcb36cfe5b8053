package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskmaster/todo/cmd/api/commands"
)

// @title Todo API
// @version 1.0
// @description Create, list, update, toggle and delete todos.
// @BasePath /

func main() {
	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "Todo API Server",
		Long:          `A small todo service: a JSON API persisted to a file on disk, plus the front-end bundle served from the same process.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewTodosCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}

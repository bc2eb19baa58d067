package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joshuapare/poolkit/cmd/poolview/logger"
	"github.com/joshuapare/poolkit/pool"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Parse flags first (before positional args)
	args := os.Args[1:]
	debugMode := false

	// Extract --debug/-d flag
	filteredArgs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--debug" || arg == "-d" {
			debugMode = true
		} else {
			filteredArgs = append(filteredArgs, arg)
		}
	}

	// Initialize logger (must be before any logging calls)
	if err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	if len(filteredArgs) < 1 {
		printUsage()
		os.Exit(1)
	}

	if filteredArgs[0] == "--help" || filteredArgs[0] == "-h" {
		printHelp()
		os.Exit(0)
	}

	if filteredArgs[0] == "--version" || filteredArgs[0] == "-v" {
		fmt.Printf("poolview %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		os.Exit(0)
	}

	poolPath := filteredArgs[0]
	logger.Info("starting poolview", "path", poolPath, "debug", debugMode)

	p, err := pool.Open(poolPath, pool.Options{})
	if err != nil {
		logger.Error("failed to open pool", "path", poolPath, "error", err)
		fmt.Fprintf(os.Stderr, "Error: failed to open pool: %v\n", err)
		os.Exit(1)
	}

	// Create the TUI model
	m := NewModel(poolPath, p)

	// Create the Bubbletea program
	program := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	// Run the program
	finalModel, err := program.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	// Clean up resources
	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			// Log error but don't fail - cleanup is best effort
			logger.Warn("error closing pool", "error", err)
		}
	}

	logger.Info("poolview exited normally")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: poolview [options] <pool-file>\n")
	fmt.Fprintf(os.Stderr, "Try 'poolview --help' for more information.\n")
}

func printHelp() {
	fmt.Println("poolview - Interactive TUI for memory pool files")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  poolview [options] <pool-file>")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug      Enable debug logging to ~/.poolview/logs")
	fmt.Println("  -h, --help       Show this help")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println()
	fmt.Println("KEYS:")
	fmt.Println("  up/down, j/k     Move between segments")
	fmt.Println("  a                Allocate (prompts for a size in bytes)")
	fmt.Println("  f                Free the selected allocation")
	fmt.Println("  s                Flush pending changes to disk")
	fmt.Println("  r                Refresh the layout")
	fmt.Println("  ?                Toggle help")
	fmt.Println("  q                Quit")
}

// Package main is the entry point for the histkit command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/j-veylop/histkit/internal/app"
	"github.com/j-veylop/histkit/internal/config"
	"github.com/j-veylop/histkit/internal/logger"
	"github.com/j-veylop/histkit/internal/registry"
	"github.com/j-veylop/histkit/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	err = app.New(cfg).Run(args)
	if n := registry.Default.Len(); n > 0 {
		logger.Warn("histograms still registered at exit", "count", n)
	}
	return err
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fr4nk3nst1ner/devsalaries/internal/app"
	"github.com/fr4nk3nst1ner/devsalaries/internal/config"
	"github.com/fr4nk3nst1ner/devsalaries/internal/ui"
	"github.com/pterm/pterm"
)

// printExamples displays usage examples for the program
func printExamples() {
	fmt.Println("\n📋 devsalaries Usage Examples 📋")
	fmt.Println("\n1. Salary statistics from HeadHunter and SuperJob (needs SECRET_KEY in the environment or .env):")
	fmt.Println("   devsalaries")

	fmt.Println("\n2. Only HeadHunter, no SuperJob key required:")
	fmt.Println("   devsalaries -source hh")

	fmt.Println("\n3. Custom language list and pacing from a config file, with debug logs:")
	fmt.Println("   devsalaries -config devsalaries.yaml -debug")

	fmt.Println("\n4. Plain output for scripts (no banner, no progress bar):")
	fmt.Println("   devsalaries -silence -quiet > salaries.txt")
	os.Exit(0)
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (default: "+config.DefaultPath+" if present)")
	source := flag.String("source", "", "Source to query (hh, superjob). If not specified, queries both.")
	debug := flag.Bool("debug", false, "Enable debug logging")
	quiet := flag.Bool("quiet", false, "Hide the progress bar")
	examples := flag.Bool("examples", false, "Show usage examples")
	noColor := flag.Bool("nocolor", false, "Disable colors in tables and logs")

	silence := flag.Bool("silence", false, "Silence the banner")
	noBanner := flag.Bool("nobanner", false, "Silence the banner (alias for -silence)")

	flag.Parse()

	if *noColor {
		pterm.DisableColor()
	}

	logger := pterm.DefaultLogger.WithWriter(os.Stderr)
	if *debug {
		logger = logger.WithLevel(pterm.LogLevelDebug)
	}

	ui.PrintBanner(os.Stderr, *silence || *noBanner)

	if *examples {
		printExamples()
		return
	}

	if !app.IsValidSource(*source) {
		logger.Fatal("Invalid source. Must be one of: hh, superjob")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Error loading config", logger.Args("error", err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid config", logger.Args("error", err))
	}

	if app.NeedsSecret(*source) {
		if err := cfg.LoadSecret(); err != nil {
			if errors.Is(err, config.ErrMissingCredential) {
				logger.Fatal("SuperJob needs an application key", logger.Args("env", config.CredentialEnv))
			}
			logger.Fatal("Error loading credential", logger.Args("error", err))
		}
	}

	sources, err := app.NewSources(cfg, *source, logger)
	if err != nil {
		logger.Fatal("Error creating sources", logger.Args("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, sources, logger)
	if !*quiet {
		a.Progress = os.Stderr
	}

	logger.Debug("Starting", logger.Args("sources", len(sources), "languages", len(cfg.Languages)))

	if err := a.Run(ctx, os.Stdout); err != nil {
		stop()
		logger.Fatal("Run failed", logger.Args("error", err))
	}
}

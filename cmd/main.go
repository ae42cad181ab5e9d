package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
	"github.com/hendrikgbrg/Bundesliga-Forecasting/pkg/pipeline"
)

var commands = map[string]func(*pipeline.Config) error{
	"restructure": pipeline.RunRestructure,
	"score":       pipeline.RunScore,
	"table":       pipeline.RunTable,
	"momentum":    pipeline.RunMomentum,
	"performance": pipeline.RunPerformance,
	"prevseason":  pipeline.RunPrevSeason,
	"relprom":     pipeline.RunRelProm,
	"history":     pipeline.RunHistory,
	"relativize":  pipeline.RunRelativize,
	"select":      pipeline.RunSelect,
	"all":         pipeline.RunAll,
}

func main() {
	// Configure logging
	logger.SetShowDateTime(true)
	logger.SetLogOutput('b')

	configPath := flag.String("config", "", "path to a YAML configuration file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		logger.SetLevel(logger.DEBUG)
	}

	args := flag.Args()
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}
	run, ok := commands[args[0]]
	if !ok {
		logger.Error("Unknown command:", args[0])
		usage()
		os.Exit(2)
	}

	cfg, err := pipeline.LoadConfig(*configPath)
	if err != nil {
		logger.Error("Configuration error:", err)
		os.Exit(1)
	}

	logger.Info("Running pipeline stage:", args[0])
	if err := run(cfg); err != nil {
		logger.Error("Stage failed:", err)
		os.Exit(1)
	}
	logger.Info("Stage completed:", args[0])
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: blf [-config file.yaml] [-v] <command>")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  restructure  turn the flat match log into the team-match panel")
	fmt.Fprintln(os.Stderr, "  score        add match scores and running season totals")
	fmt.Fprintln(os.Stderr, "  table        add daily league-table ranks and extrema")
	fmt.Fprintln(os.Stderr, "  momentum     add streak and trailing-form features")
	fmt.Fprintln(os.Stderr, "  performance  add zones and normalized performance scores")
	fmt.Fprintln(os.Stderr, "  prevseason   add previous-season standing features")
	fmt.Fprintln(os.Stderr, "  relprom      add relegation/promotion interaction features")
	fmt.Fprintln(os.Stderr, "  history      add cross-season smoothed history features")
	fmt.Fprintln(os.Stderr, "  relativize   difference every predictor against the opponent")
	fmt.Fprintln(os.Stderr, "  select       run elastic-net feature selection and write partitions")
	fmt.Fprintln(os.Stderr, "  all          run the whole pipeline front to back")
}

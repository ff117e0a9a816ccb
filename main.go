package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/chazu/graph3d/pkg/config"
	"github.com/chazu/graph3d/pkg/graph3d"
)

func main() {
	var (
		configFile string
		example    bool
		verbose    bool
		jsonOut    bool
	)

	flag.StringVar(
		&configFile, "config", "",
		"Surface batch file. See -example for the format.",
	)
	flag.BoolVar(
		&example, "example", false,
		"Prints an example surface batch file to stdout.",
	)
	flag.BoolVar(&verbose, "v", false, "Log sampling and fitting to stderr.")
	flag.BoolVar(&jsonOut, "json", false, "Print the full run result as JSON.")
	flag.Parse()

	if example {
		fmt.Print(config.Example)
		return
	}
	if configFile == "" {
		log.Fatal("Must supply a batch file with -config.")
	}
	if verbose {
		graph3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := config.ReadFile(configFile)
	if err != nil {
		log.Fatal(err.Error())
	}

	result := NewApp().Run(cfg)

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatal(err.Error())
		}
	} else {
		printSummary(result)
	}

	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func printSummary(result RunResult) {
	for _, s := range result.Surfaces {
		fmt.Printf("%-12s %s  %dx%d  min (%.3g, %.3g, %.3g)  max (%.3g, %.3g, %.3g)\n",
			s.Name, s.ID[:8], s.UCount, s.VCount,
			s.Min[0], s.Min[1], s.Min[2], s.Max[0], s.Max[1], s.Max[2])
	}
	for _, w := range result.Warnings {
		log.Printf("warning: %s", w.Message)
	}
	for _, e := range result.Errors {
		if e.Surface != "" {
			log.Printf("error in %s (line %d): %s", e.Surface, e.Line, e.Message)
		} else {
			log.Printf("error: %s", e.Message)
		}
	}
	if result.STL != "" {
		fmt.Printf("wrote %s\n", result.STL)
	}
	if result.Preview != "" {
		fmt.Printf("wrote %s\n", result.Preview)
	}
}

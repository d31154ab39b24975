// Package main scores a trade history offline and prints a report.
//
// Usage:
//
//	score -input trades.json -format md
//	cat trades.json | score -format csv
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"skillion-sdi/internal/api"
	"skillion-sdi/internal/reporting"
)

func main() {
	// Parse flags
	input := flag.String("input", "-", "Trades JSON file (array or sync body); - reads stdin")
	format := flag.String("format", "md", "Output format: md, csv, json")
	output := flag.String("output", "", "Output file (default stdout)")
	flag.Parse()

	if err := run(*input, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, format, output string) error {
	var r io.Reader = os.Stdin
	if input != "-" && input != "" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	trades, err := api.DecodeTrades(r)
	if err != nil {
		return err
	}

	report := reporting.NewGenerator(nil, nil).FromTrades(trades)

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "md", "markdown":
		_, err = io.WriteString(w, reporting.RenderMarkdown(report))
	case "csv":
		_, err = io.WriteString(w, reporting.RenderCSV(report.Result.Breakdown))
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(report.Result)
	default:
		return fmt.Errorf("unknown format %q (want md, csv or json)", format)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if output != "" {
		fmt.Fprintf(os.Stderr, "SDI %d (%s) written to %s\n", report.Result.Score, report.Result.Tier, output)
	}
	return nil
}

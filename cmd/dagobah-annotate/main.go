// Package main implements dagobah-annotate - a CLI for running the table
// annotation engine over fixture files.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dagobah-core/dagobah"
	"github.com/dagobah-core/dagobah/kvstore"
	"github.com/dagobah-core/dagobah/kvstore/bolt"
	"github.com/dagobah-core/dagobah/kvstore/postgres"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dagobah-annotate: kb store connection failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cmd := os.Args[1]
	args := os.Args[2:]

	var result any
	switch cmd {
	case "annotate":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "dagobah-annotate annotate: usage: annotate <table.json> <lookup.json>")
			os.Exit(1)
		}
		result, err = annotate(ctx, store, args[0], args[1])
	case "roles":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "dagobah-annotate roles: missing table fixture path")
			os.Exit(1)
		}
		result, err = roles(args[0])
	case "help", "-h", "--help":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "dagobah-annotate: unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "dagobah-annotate: %v\n", err)
		os.Exit(1)
	}

	// Output as JSON
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(result)
}

func printUsage() {
	fmt.Println(`dagobah-annotate - Annotate a table against a knowledge base

Usage: dagobah-annotate <command> [args]

Commands:
  annotate <table.json> <lookup.json>  Run the full annotation pipeline
  roles <table.json>                   Show the primitive typings per column
  help                                 Show this help

The KB store is resolved from the environment: set DAGOBAH_KB_PATH to a
bbolt database file, or leave it unset to connect to PostgreSQL via
DAGOBAH_DATABASE_URL / PGHOST / PGUSER / PGDATABASE / PGSSLMODE.

Examples:
  DAGOBAH_KB_PATH=kb.db dagobah-annotate annotate table.json lookup.json
  dagobah-annotate roles table.json`)
}

func openStore() (kvstore.Store, error) {
	if path := os.Getenv("DAGOBAH_KB_PATH"); path != "" {
		return bolt.Open(path)
	}
	return postgres.Open()
}

func annotate(ctx context.Context, store kvstore.Store, tablePath, lookupPath string) (any, error) {
	input, err := loadTableInput(tablePath)
	if err != nil {
		return nil, err
	}
	lookup, err := loadLookupResponse(lookupPath)
	if err != nil {
		return nil, err
	}

	engine, err := dagobah.New(store, dagobah.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("engine init: %w", err)
	}

	output, err := engine.Run(ctx, input, lookup)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	fmt.Fprintln(os.Stderr, output.Summary())
	return output, nil
}

func roles(tablePath string) (any, error) {
	input, err := loadTableInput(tablePath)
	if err != nil {
		return nil, err
	}
	return input.PrimitiveTypings, nil
}

func loadTableInput(path string) (dagobah.TableInput, error) {
	var input dagobah.TableInput
	raw, err := os.ReadFile(path)
	if err != nil {
		return input, fmt.Errorf("read table fixture: %w", err)
	}
	if err := json.Unmarshal(raw, &input); err != nil {
		return input, fmt.Errorf("decode table fixture: %w", err)
	}
	return input, nil
}

func loadLookupResponse(path string) (dagobah.LookupResponse, error) {
	var resp dagobah.LookupResponse
	raw, err := os.ReadFile(path)
	if err != nil {
		return resp, fmt.Errorf("read lookup fixture: %w", err)
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return resp, fmt.Errorf("decode lookup fixture: %w", err)
	}
	return resp, nil
}

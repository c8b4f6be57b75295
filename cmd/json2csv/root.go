package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"json2csv/internal/convert"
	"json2csv/internal/inspect"
	"json2csv/internal/loader"
	"json2csv/internal/normalize"
	"json2csv/internal/pathguard"
	"json2csv/internal/storage"
)

type rootFlags struct {
	input       string
	output      string
	mode        string
	separator   string
	verbose     bool
	dbKind      string
	dbDSN       string
	unsafePaths bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "json2csv",
		Short: "Convert a JSON file to CSV tables",
		Long: "Convert a JSON file to CSV.\n\n" +
			"Flattened mode writes one CSV with path-joined column names.\n" +
			"Normalized mode writes one CSV per entity, linked by surrogate keys.\n\n" +
			"Flags left unset are collected interactively.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "input JSON file")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output CSV file (flattened) or directory (normalized)")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", `conversion mode: "flattened" or "normalized"`)
	cmd.Flags().StringVarP(&f.separator, "separator", "s", convert.DefaultSeparator, "path separator for flattened column names")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "print the detected JSON structure before converting")
	cmd.Flags().StringVar(&f.dbKind, "db-kind", "", "also load normalized tables into a database (sqlite, postgres, mssql)")
	cmd.Flags().StringVar(&f.dbDSN, "db-dsn", "", "database connection string for --db-kind")
	cmd.Flags().BoolVar(&f.unsafePaths, "unsafe-paths", false, "skip restricting paths to the working directory and temp dir")

	return cmd
}

func run(ctx context.Context, f *rootFlags) error {
	var guard *pathguard.Guard
	if !f.unsafePaths {
		g, err := pathguard.New()
		if err != nil {
			return err
		}
		guard = g
	}

	mode, err := resolveMode(f.mode)
	if err != nil {
		return err
	}

	input, err := resolveInput(f.input, guard)
	if err != nil {
		return err
	}

	output, err := resolveOutput(f.output, input, mode, guard)
	if err != nil {
		return err
	}

	// Only ask about the separator inside an interactive session.
	sep := f.separator
	if mode == convert.ModeFlattened && f.mode == "" {
		sep, err = promptSeparator(f.separator)
		if err != nil {
			return err
		}
	}

	if f.verbose {
		if err := printStructure(input); err != nil {
			return err
		}
	}

	tables, err := convert.Convert(input, output, convert.Options{
		Mode:      mode,
		Separator: sep,
	})
	if err != nil {
		return err
	}

	reportWritten(mode, output, tables)

	if f.dbKind != "" {
		if mode != convert.ModeNormalized {
			return fmt.Errorf("--db-kind requires normalized mode")
		}
		if err := loadDatabase(ctx, f, tables); err != nil {
			return err
		}
		color.Green("Loaded %d table(s) into %s", len(tables), f.dbKind)
	}
	return nil
}

// printStructure loads the input a second time for the preview; the
// conversion itself re-reads from disk.
func printStructure(input string) error {
	recs, err := loader.LoadFile(input)
	if err != nil {
		return err
	}
	color.Cyan("Detected structure (%d record(s)):", len(recs))
	fmt.Print(inspect.Render(inspect.Detect(recs)))
	return nil
}

func reportWritten(mode convert.Mode, output string, tables normalize.Tables) {
	if mode == convert.ModeFlattened {
		color.Green("Wrote %s", output)
		return
	}

	n := 0
	for _, rows := range tables {
		if len(rows) > 0 {
			n++
		}
	}
	color.Green("Wrote %d table(s) under %s", n, convert.NormalizedDir(output))
}

func loadDatabase(ctx context.Context, f *rootFlags, tables normalize.Tables) error {
	sink, err := storage.New(ctx, storage.Config{Kind: f.dbKind, DSN: f.dbDSN})
	if err != nil {
		return err
	}
	defer sink.Close()

	return storage.LoadTables(ctx, sink, tables)
}

// defaultOutputPath suggests an output location next to the input:
// "<stem>.csv" in flattened mode, a "<stem>_csvs" directory in
// normalized mode.
func defaultOutputPath(input string, mode convert.Mode) string {
	stem := input[:len(input)-len(filepath.Ext(input))]
	if mode == convert.ModeFlattened {
		return stem + ".csv"
	}
	return stem + "_csvs"
}

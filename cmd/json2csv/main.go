// Command json2csv converts a JSON document into CSV, either as one
// flattened table or as a set of normalized relational tables. Missing
// flags are collected interactively.
package main

import (
	"fmt"
	"os"

	// register all storage backends with the factory.
	// The --db-kind flag selects which one to use at run time.
	_ "json2csv/internal/storage/all"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"litequery/internal/dbgen"
	"litequery/pkg/database"
)

const ExampleDatabase = "examples_inventory.db"

// This package walks through litequery's read paths against a real database
// file it generates first: point lookups by rowid and by index, scans with
// filters, the fast COUNT, and the integrity check. Every step runs the same
// code path the shell runs.

// Example1_OpenAndInspect looks around the file before querying it.
func Example1_OpenAndInspect(db *database.Database) error {
	fmt.Println("=== Example 1: Open and Inspect ===")
	fmt.Println()
	fmt.Println("Scenario: a file of unknown shape lands on disk")
	fmt.Println("Shell equivalents: .dbinfo, .tables, .schema")
	fmt.Println()

	info := db.Info()
	fmt.Printf("1. Header\n")
	fmt.Printf("   Page size: %d | Pages: %d | Encoding: %s\n\n",
		info.PageSize, info.PageCount, info.TextEncoding)

	fmt.Printf("2. Tables\n")
	fmt.Printf("   %s\n\n", strings.Join(db.Tables(), " "))

	entries, err := db.Schema("")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	fmt.Printf("3. Stored DDL\n")
	for _, entry := range entries {
		fmt.Printf("   %s;\n", entry.SQL)
	}
	fmt.Println()

	fmt.Println("✓ Everything above came from page 1 and the header; no table was scanned.")
	fmt.Println()
	return nil
}

// Example2_PointLookups runs the two seek paths: by rowid and by index key.
func Example2_PointLookups(db *database.Database) error {
	fmt.Println("=== Example 2: Point Lookups ===")
	fmt.Println()
	fmt.Println("Scenario: fetch single rows without scanning the table")
	fmt.Println()

	query := "SELECT name, qty FROM inventory WHERE id = 4"
	fmt.Printf("1. Rowid seek\n")
	fmt.Printf("   SQL: %s\n", query)
	result, err := db.ExecuteQuery(query)
	if err != nil {
		return fmt.Errorf("rowid seek failed: %w", err)
	}
	printRows(result)
	fmt.Println("   id is the table's INTEGER PRIMARY KEY, so the value IS the rowid;")
	fmt.Println("   the lookup descends the table tree directly.")
	fmt.Println()

	query = "SELECT id, qty FROM inventory WHERE name = 'bolt'"
	fmt.Printf("2. Index seek\n")
	fmt.Printf("   SQL: %s\n", query)
	result, err = db.ExecuteQuery(query)
	if err != nil {
		return fmt.Errorf("index seek failed: %w", err)
	}
	printRows(result)
	fmt.Println("   idx_inventory_name maps name -> rowid; each hit turns into a")
	fmt.Println("   second seek in the table tree for the full row.")
	fmt.Println()

	fmt.Println("✓ Both lookups touched a handful of pages, not the whole table.")
	fmt.Println()
	return nil
}

// Example3_ScansAndCounts runs the paths that do read the whole tree.
func Example3_ScansAndCounts(db *database.Database) error {
	fmt.Println("=== Example 3: Scans and Counts ===")
	fmt.Println()
	fmt.Println("Scenario: no index helps, so the whole tree is walked")
	fmt.Println()

	query := "SELECT name, price FROM inventory WHERE qty = 0"
	fmt.Printf("1. Filtered scan (qty has no index)\n")
	fmt.Printf("   SQL: %s\n", query)
	result, err := db.ExecuteQuery(query)
	if err != nil {
		return fmt.Errorf("filtered scan failed: %w", err)
	}
	printRows(result)
	fmt.Println()

	query = "SELECT COUNT(*) FROM inventory"
	fmt.Printf("2. Fast COUNT\n")
	fmt.Printf("   SQL: %s\n", query)
	result, err = db.ExecuteQuery(query)
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}
	printRows(result)
	fmt.Println("   With no WHERE clause the count sums leaf cell counts from the")
	fmt.Println("   page headers and never decodes a record.")
	fmt.Println()

	fmt.Println("✓ Scans stream one row at a time; nothing buffers the whole table.")
	fmt.Println()
	return nil
}

// Example4_IntegrityCheck walks every tree in the file and counts entries.
func Example4_IntegrityCheck(db *database.Database) error {
	fmt.Println("=== Example 4: Integrity Check ===")
	fmt.Println()
	fmt.Println("Scenario: verify every B-tree decodes end to end")
	fmt.Println("Shell equivalent: .check")
	fmt.Println()

	results, err := db.Check(context.Background())
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	for i, r := range results {
		fmt.Printf("%d. %-20s %-6s root=%-3d entries=%d\n", i+1, r.Name, r.Kind, r.Root, r.Entries)
	}
	fmt.Println()

	fmt.Println("✓ One goroutine per object; the first decode error cancels the rest.")
	fmt.Println()
	return nil
}

// printRows renders a result the way the CLI does, one |-separated line per
// row.
func printRows(result database.QueryResult) {
	fmt.Printf("   -> %s\n", strings.Join(result.Columns, "|"))
	for _, row := range result.Rows {
		fmt.Printf("      %s\n", strings.Join(row, "|"))
	}
	fmt.Printf("   (%d row(s) in %v)\n", result.RowCount, result.Elapsed)
}

// buildExampleDatabase writes the small inventory database the walkthrough
// reads: one table with an INTEGER PRIMARY KEY and one index on name.
func buildExampleDatabase(path string) error {
	b := dbgen.New(512)
	inv := b.Table("inventory",
		"CREATE TABLE inventory (id INTEGER PRIMARY KEY, name TEXT, qty INTEGER, price REAL)")
	inv.Row(1, nil, "anvil", int64(2), 119.0)
	inv.Row(2, nil, "bolt", int64(500), 0.05)
	inv.Row(4, nil, "crate", int64(0), 14.5)
	inv.Row(7, nil, "drill", int64(12), 89.99)
	inv.Row(9, nil, "bolt", int64(80), 0.07)
	b.Index("idx_inventory_name", "inventory",
		"CREATE INDEX idx_inventory_name ON inventory (name)", 1)

	data, err := b.Build()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// RunAllExamples generates the database, opens it, and runs every example in
// sequence. The file is left behind so the shell can browse it afterwards.
func RunAllExamples() error {
	if err := buildExampleDatabase(ExampleDatabase); err != nil {
		return fmt.Errorf("failed to generate example database: %w", err)
	}

	db, err := database.Open(ExampleDatabase, database.Options{})
	if err != nil {
		return fmt.Errorf("failed to open example database: %w", err)
	}
	defer db.Close()

	fmt.Println("╔════════════════════════════════════════════════════════════╗")
	fmt.Println("║        Read-Path Examples for the litequery Engine         ║")
	fmt.Println("╚════════════════════════════════════════════════════════════╝")
	fmt.Println()

	examples := []struct {
		name string
		fn   func(*database.Database) error
	}{
		{"Open and Inspect", Example1_OpenAndInspect},
		{"Point Lookups", Example2_PointLookups},
		{"Scans and Counts", Example3_ScansAndCounts},
		{"Integrity Check", Example4_IntegrityCheck},
	}

	for i, example := range examples {
		if err := example.fn(db); err != nil {
			return fmt.Errorf("example %s failed: %w", example.name, err)
		}
		if i < len(examples)-1 {
			fmt.Println("─────────────────────────────────────────────────────────────")
			fmt.Println()
		}
	}

	fmt.Println("═════════════════════════════════════════════════════════════")
	fmt.Printf("\n✓ Example database left at: %s\n", ExampleDatabase)
	fmt.Println("\nBrowse it interactively with:")
	fmt.Printf("  litequery %s\n", ExampleDatabase)
	fmt.Println("═════════════════════════════════════════════════════════════")

	return nil
}

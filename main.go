package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"litequery/pkg/database"
	"litequery/pkg/logging"
	"litequery/pkg/parser"
	"litequery/pkg/ui"
	"litequery/pkg/ui/base"
)

type Configuration struct {
	DatabasePath string
	Command      string
	LogFile      string
	LogLevel     string
	LogFormat    string
	CachePages   int
}

func main() {
	os.Exit(run())
}

// run keeps the exit code out of main so the deferred cleanups fire.
func run() int {
	config, err := parseArguments()
	if err != nil {
		fmt.Fprintf(os.Stderr, "litequery: %v\n\n", err)
		flag.Usage()
		return 2
	}

	if err := setupLogging(config); err != nil {
		fmt.Fprintf(os.Stderr, "litequery: %v\n", err)
		return 1
	}
	defer logging.Close()

	db, err := database.Open(config.DatabasePath, database.Options{CachePages: config.CachePages})
	if err != nil {
		fmt.Fprintf(os.Stderr, "litequery: %v\n", err)
		return 1
	}
	defer db.Close()

	if config.Command == "" {
		showSplashScreen()
		if err := startInteractiveMode(db); err != nil {
			fmt.Fprintf(os.Stderr, "litequery: %v\n", err)
			return 1
		}
		return 0
	}

	if err := runCommand(db, config.Command); err != nil {
		fmt.Fprintf(os.Stderr, "litequery: %v\n", err)
		return 1
	}
	return 0
}

// parseArguments processes command-line flags and positional arguments
func parseArguments() (Configuration, error) {
	var config Configuration

	flag.StringVar(&config.LogFile, "log-file", "", "write logs to this file instead of stderr")
	flag.StringVar(&config.LogLevel, "log-level", "", "log verbosity: debug, info, warn or error")
	flag.StringVar(&config.LogFormat, "log-format", "text", "log output format: text or json")
	flag.IntVar(&config.CachePages, "cache-pages", 0, "page cache capacity in pages (0 for the default)")
	flag.Usage = printUsage

	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		return config, fmt.Errorf("missing database path")
	}
	config.DatabasePath = args[0]
	config.Command = strings.TrimSpace(strings.Join(args[1:], " "))

	return config, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: litequery [flags] <database> [command]

Commands:
  .dbinfo            print header fields and schema statistics
  .tables            list user tables
  .schema [name]     print CREATE statements
  .indexes [table]   list index names
  .check             walk every B-tree and count its entries
  SELECT ...         run a query and print its rows

With no command, litequery opens the interactive shell.

Flags:
`)
	flag.PrintDefaults()
}

func setupLogging(config Configuration) error {
	if config.LogFile == "" && config.LogLevel == "" {
		logging.InitDefault()
		return nil
	}

	level := logging.LevelInfo
	switch strings.ToLower(config.LogLevel) {
	case "", "info":
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	default:
		return fmt.Errorf("unknown log level %q", config.LogLevel)
	}

	return logging.Init(logging.Config{
		Level:      level,
		OutputPath: config.LogFile,
		Format:     config.LogFormat,
	})
}

// runCommand executes one command and prints its result to stdout in a
// plain, pipeable form. Rows come out "|"-separated with NULL as an empty
// field, the way sqlite3's list mode prints them.
func runCommand(db *database.Database, input string) error {
	stmt, err := parser.ParseStatement(input)
	if err != nil {
		return err
	}

	if cmd, ok := stmt.(*parser.CommandStatement); ok {
		return runDotCommand(db, cmd)
	}

	result, err := db.ExecuteQuery(input)
	if err != nil {
		return err
	}
	for _, row := range result.Rows {
		fmt.Println(strings.Join(row, "|"))
	}
	return nil
}

func runDotCommand(db *database.Database, cmd *parser.CommandStatement) error {
	switch cmd.Command {
	case parser.CmdDBInfo:
		for _, field := range db.Info().Fields() {
			fmt.Printf("%s %s\n", base.PadString(field.Name+":", 20), field.Value)
		}
	case parser.CmdTables:
		if tables := db.Tables(); len(tables) > 0 {
			fmt.Println(strings.Join(tables, " "))
		}
	case parser.CmdSchema:
		entries, err := db.Schema(cmd.Arg)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			fmt.Println(entry.SQL + ";")
		}
	case parser.CmdIndexes:
		names, err := db.Indexes(cmd.Arg)
		if err != nil {
			return err
		}
		if len(names) > 0 {
			fmt.Println(strings.Join(names, " "))
		}
	case parser.CmdCheck:
		results, err := db.Check(context.Background())
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("%s %s root=%d entries=%d\n", r.Name, r.Kind, r.Root, r.Entries)
		}
		fmt.Println("ok")
	default:
		return fmt.Errorf("unknown command %s", cmd.Command)
	}
	return nil
}

// showSplashScreen displays the welcome banner before the shell takes over
func showSplashScreen() {
	splash := `
   ██╗     ██╗████████╗███████╗
   ██║     ██║╚══██╔══╝██╔════╝
   ██║     ██║   ██║   █████╗
   ██║     ██║   ██║   ██╔══╝
   ███████╗██║   ██║   ███████╗
   ╚══════╝╚═╝   ╚═╝   ╚══════╝
    ██████╗ ██╗   ██╗███████╗██████╗ ██╗   ██╗
   ██╔═══██╗██║   ██║██╔════╝██╔══██╗╚██╗ ██╔╝
   ██║   ██║██║   ██║█████╗  ██████╔╝ ╚████╔╝
   ██║▄▄ ██║██║   ██║██╔══╝  ██╔══██╗  ╚██╔╝
   ╚██████╔╝╚██████╔╝███████╗██║  ██║   ██║
    ╚══▀▀═╝  ╚═════╝ ╚══════╝╚═╝  ╚═╝   ╚═╝

           Read-Only SQLite File Explorer
`

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)

	fmt.Println(style.Render(splash))
	time.Sleep(time.Second)
}

// startInteractiveMode launches the Bubble Tea UI
func startInteractiveMode(db *database.Database) error {
	model := ui.NewModel(db)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %v", err)
	}

	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "list":
		cmd = cli.NewListCommand()
	case "categories":
		cmd = cli.NewCategoriesCommand()
	case "show":
		cmd = cli.NewShowCommand()
	case "add":
		cmd = cli.NewAddCommand()
	case "edit":
		cmd = cli.NewEditCommand()
	case "delete":
		cmd = cli.NewDeleteCommand()
	case "watch":
		cmd = cli.NewWatchCommand()

	case "version":
		fmt.Printf("bookshelf %s (%s)\n", Version, Commit)
		return

	case "-h", "--help", "help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  list        List books, newest first\n")
	fmt.Fprintf(os.Stderr, "  categories  List the categories in use\n")
	fmt.Fprintf(os.Stderr, "  show        Show a single book\n")
	fmt.Fprintf(os.Stderr, "  add         Add a book\n")
	fmt.Fprintf(os.Stderr, "  edit        Edit a book\n")
	fmt.Fprintf(os.Stderr, "  delete      Delete a book\n")
	fmt.Fprintf(os.Stderr, "  watch       Print the listing again after every change\n")
	fmt.Fprintf(os.Stderr, "  version     Print the version\n")
	fmt.Fprintf(os.Stderr, "\nConfiguration is read from the environment: DATABASE_PATH, STORE_DRIVER,\n")
	fmt.Fprintf(os.Stderr, "LOG_LEVEL, LOG_FORMAT, TASKS_ENABLED, TASK_WORKERS and others.\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}

package cli

import (
	"flag"
	"fmt"
	"os"
)

// ShowCommand prints a single book.
type ShowCommand struct {
	storeOptions
	ID int64
}

func NewShowCommand() *ShowCommand {
	return &ShowCommand{}
}

func (cmd *ShowCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	cmd.register(fs)
	fs.Int64Var(&cmd.ID, "id", 0, "ID of the book (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s show -id <id> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show a single book.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	return requireID(cmd.ID)
}

func (cmd *ShowCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	book := findBook(app.ViewModel, cmd.ID)
	if book == nil {
		return fmt.Errorf("book %d not found", cmd.ID)
	}

	printBook(cmd.out(), *book)
	return nil
}

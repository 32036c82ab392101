package cli

import (
	"flag"
	"fmt"
	"os"
)

// DeleteCommand removes a book from the inventory.
type DeleteCommand struct {
	storeOptions
	ID int64
}

func NewDeleteCommand() *DeleteCommand {
	return &DeleteCommand{}
}

func (cmd *DeleteCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	cmd.register(fs)
	fs.Int64Var(&cmd.ID, "id", 0, "ID of the book to delete (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s delete -id <id> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete a book from the inventory.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	return requireID(cmd.ID)
}

func (cmd *DeleteCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	book := findBook(app.ViewModel, cmd.ID)
	if book == nil {
		return fmt.Errorf("book %d not found", cmd.ID)
	}

	app.ViewModel.DeleteBook(*book)
	fmt.Fprintf(cmd.out(), "Deleted %q\n", book.Name)
	return nil
}

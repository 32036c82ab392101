package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// ListCommand prints the inventory, newest first.
type ListCommand struct {
	storeOptions
	Category string
}

func NewListCommand() *ListCommand {
	return &ListCommand{}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	cmd.register(fs)
	fs.StringVar(&cmd.Category, "category", "", "Only list books in this category")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List the books in the inventory, most recently added first.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ListCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	listen := app.ViewModel.GetAllBooks
	if cmd.Category != "" {
		listen = func(ctx context.Context) <-chan []entities.Book {
			return app.ViewModel.GetBooksByCategory(ctx, cmd.Category)
		}
	}

	books, err := firstSnapshot(context.Background(), listen)
	if err != nil {
		return err
	}

	printBooks(cmd.out(), books)
	return nil
}

// CategoriesCommand prints every category that has at least one book.
type CategoriesCommand struct {
	storeOptions
}

func NewCategoriesCommand() *CategoriesCommand {
	return &CategoriesCommand{}
}

func (cmd *CategoriesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	cmd.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s categories [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List the distinct categories in use.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *CategoriesCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	categories, err := firstSnapshot(context.Background(), app.ViewModel.GetAllCategories)
	if err != nil {
		return err
	}

	out := cmd.out()
	if len(categories) == 0 {
		fmt.Fprintln(out, "No categories found")
		return nil
	}
	for _, c := range categories {
		fmt.Fprintln(out, c)
	}
	return nil
}

package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/form"
)

// bookFields are the form fields settable from the command line.
type bookFields struct {
	Name     string
	Category string
	Quantity string
	Price    string

	set map[string]bool
}

func (f *bookFields) register(fs *flag.FlagSet) {
	fs.StringVar(&f.Name, "name", "", "Book name")
	fs.StringVar(&f.Category, "category", "", "Category; anything outside the default list is stored as a custom category")
	fs.StringVar(&f.Quantity, "quantity", "", "Number of copies in stock")
	fs.StringVar(&f.Price, "price", "", "Unit price, e.g. 1,234.50")
}

func (f *bookFields) parsed(fs *flag.FlagSet) {
	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})
}

// apply copies the flags that were given onto bf.
func (f *bookFields) apply(bf *form.BookForm) {
	if f.set["name"] {
		bf.Name = f.Name
	}
	if f.set["category"] {
		if entities.IsDefaultCategory(f.Category) {
			bf.Category = f.Category
			bf.CustomCategory = ""
		} else {
			bf.Category = entities.CategoryOther
			bf.CustomCategory = f.Category
		}
	}
	if f.set["quantity"] {
		bf.Quantity = f.Quantity
	}
	if f.set["price"] {
		bf.Price = f.Price
	}
}

func printCategories() {
	fmt.Fprintf(os.Stderr, "\nDefault categories:\n")
	for _, c := range entities.DefaultCategories {
		fmt.Fprintf(os.Stderr, "  %s\n", c)
	}
}

// AddCommand adds a book to the inventory.
type AddCommand struct {
	storeOptions
	bookFields
}

func NewAddCommand() *AddCommand {
	return &AddCommand{}
}

func (cmd *AddCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	cmd.storeOptions.register(fs)
	cmd.bookFields.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add -name <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Add a book to the inventory.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		printCategories()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s add -name \"Dune\" -category Fiction -quantity 5 -price 29.90\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s add -name \"Leaves of Grass\" -category Poetry\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd.parsed(fs)
	return nil
}

func (cmd *AddCommand) Run() error {
	bf := form.New()
	cmd.apply(&bf)

	book, err := bf.ToBook(0)
	if err != nil {
		return printValidationError(cmd.out(), err)
	}

	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	app.ViewModel.SaveBook(book)
	fmt.Fprintf(cmd.out(), "Saved %q\n", book.Name)
	return nil
}

// EditCommand changes the fields of an existing book. Fields without a flag
// keep their stored value.
type EditCommand struct {
	storeOptions
	bookFields
	ID int64
}

func NewEditCommand() *EditCommand {
	return &EditCommand{}
}

func (cmd *EditCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	cmd.storeOptions.register(fs)
	cmd.bookFields.register(fs)
	fs.Int64Var(&cmd.ID, "id", 0, "ID of the book to edit (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s edit -id <id> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Edit a book. Only the given fields change.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		printCategories()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd.parsed(fs)
	return requireID(cmd.ID)
}

func (cmd *EditCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	existing := findBook(app.ViewModel, cmd.ID)
	if existing == nil {
		return fmt.Errorf("book %d not found", cmd.ID)
	}

	bf := form.FromBook(*existing)
	cmd.apply(&bf)

	book, err := bf.ToBook(existing.ID)
	if err != nil {
		return printValidationError(cmd.out(), err)
	}

	app.ViewModel.SaveBook(book)
	fmt.Fprintf(cmd.out(), "Saved %q\n", book.Name)
	return nil
}

package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
	"github.com/mrlokans/bookshelf/internal/form"
	"github.com/mrlokans/bookshelf/internal/viewmodel"
)

var errStreamClosed = errors.New("listing closed before the first snapshot")

// storeOptions are the flags every inventory command accepts.
type storeOptions struct {
	DatabasePath string
	Driver       string

	// Out receives command output. Defaults to stdout.
	Out io.Writer
}

func (o *storeOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.DatabasePath, "db", "", "Path to the inventory database (default $DATABASE_PATH or "+config.DefaultDatabasePath+")")
	fs.StringVar(&o.Driver, "driver", "", "Record Store driver: sqlite or memory (default $STORE_DRIVER or sqlite)")
}

func (o *storeOptions) open() (*entrypoint.App, error) {
	cfg := config.NewConfig()
	if o.DatabasePath != "" {
		cfg.Database.Path = o.DatabasePath
	}
	if o.Driver != "" {
		cfg.Database.Driver = o.Driver
	}

	app, err := entrypoint.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory: %w", err)
	}
	return app, nil
}

func (o *storeOptions) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// firstSnapshot reads the current state of a live listing.
func firstSnapshot[T any](ctx context.Context, listen func(context.Context) <-chan []T) ([]T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snapshot, ok := <-listen(ctx)
	if !ok {
		return nil, errStreamClosed
	}
	return snapshot, nil
}

// findBook waits for the view model to deliver the lookup result.
func findBook(vm *viewmodel.BookViewModel, id int64) *entities.Book {
	found := make(chan *entities.Book, 1)
	vm.FindBookByID(id, func(b *entities.Book) {
		found <- b
	})
	return <-found
}

func printBooks(w io.Writer, books []entities.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tQUANTITY\tPRICE")
	for _, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", b.ID, b.Name, b.Category, b.Quantity, form.FormatPrice(b.Price))
	}
	tw.Flush()
}

func printBook(w io.Writer, b entities.Book) {
	fmt.Fprintf(w, "ID:       %d\n", b.ID)
	fmt.Fprintf(w, "Name:     %s\n", b.Name)
	fmt.Fprintf(w, "Category: %s\n", b.Category)
	fmt.Fprintf(w, "Quantity: %d\n", b.Quantity)
	fmt.Fprintf(w, "Price:    %s\n", form.FormatPrice(b.Price))
}

func printValidationError(w io.Writer, err error) error {
	var verr *form.ValidationError
	if !errors.As(err, &verr) {
		return err
	}

	fields := make([]string, 0, len(verr.Fields))
	for field := range verr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	fmt.Fprintln(w, "The book cannot be saved:")
	for _, field := range fields {
		fmt.Fprintf(w, "  %s %s\n", field, verr.Fields[field])
	}
	return err
}

func requireID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("required flag -id not provided")
	}
	return nil
}

package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// WatchCommand prints the listing every time it changes, until interrupted.
type WatchCommand struct {
	storeOptions
	Category   string
	Categories bool
}

func NewWatchCommand() *WatchCommand {
	return &WatchCommand{}
}

func (cmd *WatchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	cmd.register(fs)
	fs.StringVar(&cmd.Category, "category", "", "Only watch books in this category")
	fs.BoolVar(&cmd.Categories, "categories", false, "Watch the category list instead of books")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s watch [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the listing now and again after every change, until interrupted.\n")
		fmt.Fprintf(os.Stderr, "Changes made by other commands against the same database show up too.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Categories && cmd.Category != "" {
		return fmt.Errorf("-category and -categories cannot be combined")
	}
	return nil
}

func (cmd *WatchCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return cmd.RunContext(ctx)
}

// RunContext watches until ctx is done.
func (cmd *WatchCommand) RunContext(ctx context.Context) error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	go func() {
		if err := app.FollowExternalWrites(ctx); err != nil {
			app.Log.Error().Err(err).Msg("stopped following external writes")
		}
	}()

	out := cmd.out()
	switch {
	case cmd.Categories:
		for categories := range app.ViewModel.GetAllCategories(ctx) {
			fmt.Fprintf(out, "--- %s\n", time.Now().Format(time.TimeOnly))
			fmt.Fprintln(out, strings.Join(categories, "\n"))
		}
	default:
		var books <-chan []entities.Book
		if cmd.Category != "" {
			books = app.ViewModel.GetBooksByCategory(ctx, cmd.Category)
		} else {
			books = app.ViewModel.GetAllBooks(ctx)
		}
		for snapshot := range books {
			fmt.Fprintf(out, "--- %s\n", time.Now().Format(time.TimeOnly))
			printBooks(out, snapshot)
		}
	}
	return nil
}

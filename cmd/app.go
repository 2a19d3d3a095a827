// Package cmd implements the CLI application to manage a book of
// accounts, pockets and subpockets.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/pocketbook"
	"github.com/etnz/pocketbook/fx"
	"github.com/etnz/pocketbook/quote"
	"github.com/google/subcommands"
)

// Commands lists every subcommand, for the main package to register and
// for the completion predictor.
var Commands = []subcommands.Command{
	&newAccountCmd{},
	&newPocketCmd{},
	&newSubPocketCmd{},
	&incomeCmd{},
	&expenseCmd{},
	&investCmd{},
	&applyCmd{},
	&editCmd{},
	&deleteCmd{},
	&rmAccountCmd{},
	&rmPocketCmd{},
	&summaryCmd{},
	&contributionsCmd{},
	&txCmd{},
	&fmtCmd{},
	&topicCmd{},
	&assistCmd{},
}

// As a CLI application it has a very short lived lifecycle, so it is ok
// to use global variables.

var (
	bookFile   = flag.String("book-file", "", "Path to the book file (JSONL format). Overrides config and $PKB_BOOK_FILE.")
	configFile = flag.String("config", "", "Path to the config file (TOML). Defaults to $PKB_CONFIG or ~/.config/pkb/config.toml.")
)

// EnvBookFile overrides the configured book file location.
const EnvBookFile = "PKB_BOOK_FILE"

// BookPath resolves the book file location: flag, then environment,
// then config file, then the config default.
func BookPath() string {
	if *bookFile != "" {
		return *bookFile
	}
	if env := os.Getenv(EnvBookFile); env != "" {
		return env
	}
	return loadConfig().BookFile
}

// DecodeBookFile loads the book from the application's book file. A
// missing file is an empty book, so the first command works on a fresh
// setup.
func DecodeBookFile() (*pocketbook.Book, error) {
	path := BookPath()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("warning, book file %q does not exist, starting an empty book", path)
			return pocketbook.NewBook(), nil
		}
		return nil, fmt.Errorf("could not open book file %q: %w", path, err)
	}
	defer f.Close()

	book, err := pocketbook.DecodeBook(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode book file %q: %w", path, err)
	}
	return book, nil
}

// newEngine wires the book to a file store on the app book file and to
// the configured quote provider.
func newEngine(book *pocketbook.Book) *pocketbook.Engine {
	cfg := loadConfig()
	prices := quote.NewService(nil, cfg.QuoteURL, cfg.QuotePath, cfg.QuoteTTL())
	return pocketbook.NewEngine(book, pocketbook.NewFileStore(BookPath(), book), prices)
}

// newConverter wires the configured exchange rate provider, with the
// day-long cache shared across a single invocation.
func newConverter() *fx.Converter {
	cfg := loadConfig()
	return fx.NewConverter(fx.JSONRate(nil, cfg.RateURL, cfg.RatePath), cfg.RateTTL())
}

// loadEngine loads the book and wires it, the common prologue of every
// mutating command.
func loadEngine() (*pocketbook.Engine, error) {
	book, err := DecodeBookFile()
	if err != nil {
		return nil, err
	}
	return newEngine(book), nil
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

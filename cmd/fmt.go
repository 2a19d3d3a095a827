package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pocketbook"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the book file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `pkb fmt

  Validates and formats the book file. This command reads the whole
  book, re-derives every balance from the movement history, and writes
  it back in canonical JSONL order with stable keys, so the file diffs
  cleanly under version control.
`
}
func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBookFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load book: %v\n", err)
		return subcommands.ExitFailure
	}

	pocketbook.RecomputeAll(book, pocketbook.NoPrices)

	var buf bytes.Buffer
	if err := pocketbook.EncodeBook(&buf, book); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting book: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(BookPath(), buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving book %q: %v\n", BookPath(), err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted book %q\n", BookPath())
	return subcommands.ExitSuccess
}

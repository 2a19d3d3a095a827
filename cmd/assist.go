package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/pocketbook/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `pkb assist [initial question]

  Starts an interactive session with the AI assistant. A bookkeeper
  expert can read the book, an advisor expert grounds answers with
  search. Requires GEMINI_API_KEY. Type 'bye' to exit.
`
}
func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating AI client: %v\n", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin,
		agent.NewBookkeeper(DecodeBookFile),
		agent.NewAdvisor(),
	)
	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintf(os.Stderr, "Error in assistant session: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

package agent

import (
	"context"
	"fmt"

	"github.com/etnz/pocketbook"
	"github.com/etnz/pocketbook/docs"
	"github.com/etnz/pocketbook/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// BookLoader loads the user's current book. Injected so the agent does
// not depend on where the book file lives.
type BookLoader func() (*pocketbook.Book, error)

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skills from the Tools and ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand his personal finances: what he has on his
			accounts, whether his recurring bills are covered, and how his savings plans progress.

			Devise a plan of questions to ask each expert and come up with the best response
			to the user's request. Check the book first, the user assumes you know his
			accounts, pockets and subpockets.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAdvisor returns the grounding expert: generic personal-finance
// knowledge backed by search.
func NewAdvisor() *Expert {
	return &Expert{
		Name: "Advisor",
		Description: `This is a personal finance advisor.
		Well aware of budgeting practices, savings products, interest rates and market news.
		Ask the Advisor whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in personal finance: budgeting, savings, recurring bills,
			index funds and interest rates. You leverage Google Search to ground your
			assertions in a solid truth, and you know how to relate the latest news to
			the user's request.
				`}}},
		},
	}
}

// NewBookkeeper returns the expert in charge of reading the user's book.
func NewBookkeeper(load BookLoader) *Expert {
	lib := []Function{summaryFunc(load), contributionsFunc(load), movementsFunc(load)}

	return &Expert{
		Name: "Bookkeeper",
		Description: `This is the Bookkeeper. He is in charge of reading the user's book of
		accounts, pockets and subpockets, and can compute the relevant figures about the
		user's balances, savings plans and movement history.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a bookkeeper in charge of the user's book.
				You know how to use the Tools to extract relevant information about the
				user's accounts, pockets, subpockets and movements.
				You are part of a team of experts, yours is everything recorded in the book.
				They might ask you questions with approximative vocabulary, pardon them and
				figure out what they meant. The vocabulary of the book:

			` + mustTopic("pockets") + mustTopic("movements")}}},
		},
		Library: NewLibrary(lib),
	}
}

// summaryFunc renders the whole book: every account with its pockets
// and subpockets.
func summaryFunc(load BookLoader) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Summary",
			Description: `Summary lists every account in the user's book with its balance,
			its pockets and their subpockets with target and progress.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report of all accounts, pockets and subpockets with balances.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return respond(id, "Summary", load, func(b *pocketbook.Book) string {
				return renderer.RenderSummary(renderer.NewSummary(b))
			})
		},
	}
}

// contributionsFunc renders the monthly contribution plan.
func contributionsFunc(load BookLoader) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Contributions",
			Description: `Contributions lists what each subpocket needs this month to stay
			on its savings plan: installment, required amount, saved so far and progress.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of required monthly contributions.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return respond(id, "Contributions", load, func(b *pocketbook.Book) string {
				return renderer.RenderContributions(renderer.NewContributions(b))
			})
		},
	}
}

// movementsFunc renders the movement history.
func movementsFunc(load BookLoader) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Movements",
			Description: `Movements lists the movement history of the book: date, type,
			signed amount, account and pocket, including pending and orphaned movements.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of all movements.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return respond(id, "Movements", load, func(b *pocketbook.Book) string {
				return renderer.RenderMovementLog(renderer.NewMovementLog(b))
			})
		},
	}
}

// respond loads the book and renders it, folding errors into the
// function response.
func respond(id, name string, load BookLoader, render func(*pocketbook.Book) string) *genai.FunctionResponse {
	fresp := &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{},
	}
	book, err := load()
	if err != nil {
		fresp.Response["error"] = fmt.Sprintf("could not load book: %v", err)
		return fresp
	}
	fresp.Response["output"] = render(book)
	return fresp
}

func mustTopic(name string) string {
	topic, err := docs.GetTopic(name)
	if err != nil {
		panic(err)
	}
	return topic
}

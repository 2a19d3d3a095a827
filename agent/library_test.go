package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/pocketbook"
	"google.golang.org/genai"
)

func TestLibraryDispatch(t *testing.T) {
	echo := &Func{
		Decl: &genai.FunctionDeclaration{Name: "Echo"},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return &genai.FunctionResponse{ID: id, Name: "Echo", Response: map[string]any{"output": args["text"]}}
		},
	}
	lib := NewLibrary([]Function{echo})

	resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: "Echo", Args: map[string]any{"text": "hello"}})
	if resp.Response["output"] != "hello" {
		t.Errorf("output = %v", resp.Response["output"])
	}

	resp = lib(context.Background(), &genai.FunctionCall{ID: "2", Name: "Nope"})
	if _, ok := resp.Response["error"]; !ok {
		t.Error("unknown function should return an error response")
	}
}

func TestBookkeeperFunctions(t *testing.T) {
	book := pocketbook.NewBook()
	checking, err := pocketbook.NewAccount("Checking", "", "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if err := book.AddAccount(checking); err != nil {
		t.Fatal(err)
	}
	load := func() (*pocketbook.Book, error) { return book, nil }

	resp := summaryFunc(load).Call(context.Background(), "1", nil)
	out, ok := resp.Response["output"].(string)
	if !ok || !strings.Contains(out, "Checking") {
		t.Errorf("summary output = %v", resp.Response)
	}

	failing := func() (*pocketbook.Book, error) { return nil, errors.New("corrupt file") }
	resp = contributionsFunc(failing).Call(context.Background(), "2", nil)
	if _, ok := resp.Response["error"]; !ok {
		t.Error("load failure should surface as an error response")
	}
}

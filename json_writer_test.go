package pocketbook

import "testing"

func TestJSONObjectWriter(t *testing.T) {
	var w jsonObjectWriter
	w.Append("kind", "account").
		Append("name", "Checking").
		Optional("color", "").
		Optional("symbol", "WLD").
		Append("count", 3)

	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"kind":"account","name":"Checking","symbol":"WLD","count":3}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestJSONObjectWriter_Embed(t *testing.T) {
	var w jsonObjectWriter
	w.Append("kind", "movement").EmbedFrom(EUR(12.5))
	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"kind":"movement","currency":"EUR","amount":12.5}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestJSONObjectWriter_Empty(t *testing.T) {
	var w jsonObjectWriter
	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("got %s, want {}", got)
	}
}

package errorbag_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formclient/pkg/errorbag"
)

func TestSetNormalisesMessages(t *testing.T) {
	bag := errorbag.New()
	bag.Set(map[string]any{
		"name":  []any{"required", "too short"},
		"email": []string{"invalid"},
		"error": "Nope",
		"age":   42,
		"blank": "  ",
		"nil":   nil,
	})

	want := map[string][]string{
		"name":  {"required", "too short"},
		"email": {"invalid"},
		"error": {"Nope"},
		"age":   {"42"},
	}
	if diff := cmp.Diff(want, bag.All()); diff != "" {
		t.Fatalf("bag contents mismatch (-want +got):\n%s", diff)
	}
	if got := bag.Get("name"); got != "required" {
		t.Fatalf("expected first message, got %q", got)
	}
	if bag.Has("blank") {
		t.Fatalf("blank messages should be dropped")
	}
}

func TestSetReplacesInsteadOfMerging(t *testing.T) {
	bag := errorbag.New()
	bag.Set(map[string]any{"name": "required"})
	bag.Set(map[string]any{"email": "invalid"})

	if bag.Has("name") {
		t.Fatalf("expected previous contents to be replaced")
	}
	if diff := cmp.Diff([]string{"email"}, bag.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestClearAndForget(t *testing.T) {
	bag := errorbag.New()
	bag.Set(map[string]any{"a": "x", "b": "y"})

	bag.Forget("a")
	if diff := cmp.Diff([]string{"y"}, bag.Flatten()); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}

	bag.Clear()
	if bag.Any() {
		t.Fatalf("expected empty bag after Clear")
	}
	if got := bag.Get("b"); got != "" {
		t.Fatalf("expected empty message, got %q", got)
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	bag := errorbag.New()
	bag.Set(map[string]any{"name": []string{"required"}})

	msgs := bag.Messages("name")
	msgs[0] = "mutated"

	if got := bag.Get("name"); got != "required" {
		t.Fatalf("bag mutated through Messages copy: %q", got)
	}
}

func TestStrictSanitizerStripsMarkup(t *testing.T) {
	bag := errorbag.New(errorbag.WithSanitizer(errorbag.StrictSanitizer()))
	bag.Set(map[string]any{
		"name":  `<b>Name</b> is required<script>alert(1)</script>`,
		"empty": "<br/>",
	})

	want := map[string][]string{"name": {"Name is required"}}
	if diff := cmp.Diff(want, bag.All()); diff != "" {
		t.Fatalf("sanitised contents mismatch (-want +got):\n%s", diff)
	}
}

package scraper

import (
	"context"
	"errors"
	"testing"
)

type nullAdapter struct{}

func (nullAdapter) Scrape(context.Context, Target) ([]Raw, error) { return nil, nil }

func TestResolve(t *testing.T) {
	Register("testplat", nullAdapter{})

	if _, err := Resolve("testplat"); err != nil {
		t.Fatalf("Resolve(testplat): %v", err)
	}
	if _, err := Resolve("no-such-tag"); !errors.Is(err, ErrUnknownPlatform) {
		t.Fatalf("Resolve(no-such-tag): err = %v, want ErrUnknownPlatform", err)
	}
}

func TestSkippable(t *testing.T) {
	cases := map[string]bool{
		"":                     true,
		"needs_classification": true,
		"dead":                 true,
		"sightmap":             false,
		"rentcafe":             false,
	}
	for tag, want := range cases {
		if got := Skippable(tag); got != want {
			t.Errorf("Skippable(%q) = %v, want %v", tag, got, want)
		}
	}
}

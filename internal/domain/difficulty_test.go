package domain

import (
	"errors"
	"testing"
)

func TestNextLevel(t *testing.T) {
	cases := []struct {
		in   Difficulty
		want Difficulty
		ok   bool
	}{
		{Beginner, Intermediate, true},
		{Intermediate, Advanced, true},
		{Advanced, "", false},
		{Difficulty("expert"), "", false},
	}
	for _, tc := range cases {
		got, ok := NextLevel(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("NextLevel(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("  Intermediate ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d != Intermediate {
		t.Fatalf("expected intermediate, got %q", d)
	}

	if _, err := ParseDifficulty("expert"); !errors.Is(err, ErrInvalidDifficulty) {
		t.Fatalf("expected invalid difficulty, got %v", err)
	}
}

func TestLookupDifficultyIsExact(t *testing.T) {
	if d, err := LookupDifficulty("beginner"); err != nil || d != Beginner {
		t.Fatalf("expected beginner, got %q (%v)", d, err)
	}
	for _, raw := range []string{"Beginner", " beginner", "BEGINNER", ""} {
		if _, err := LookupDifficulty(raw); !errors.Is(err, ErrInvalidDifficulty) {
			t.Fatalf("expected %q rejected, got %v", raw, err)
		}
	}
}

func TestDifficultyTitle(t *testing.T) {
	if got := Advanced.Title(); got != "Advanced" {
		t.Fatalf("expected Advanced, got %q", got)
	}
}

package validate_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"erpvendas/internal/validate"
)

func TestID(t *testing.T) {
	if _, ok := validate.ID("prod-a"); !ok {
		t.Fatal("want valid id")
	}
	if _, ok := validate.ID("  sale_42  "); !ok {
		t.Fatal("want trimmed id to validate")
	}
	for _, bad := range []string{"", "has spaces", "semi;colon", "a/b"} {
		if _, ok := validate.ID(bad); ok {
			t.Fatalf("id %q should be rejected", bad)
		}
	}
}

func TestDateLayouts(t *testing.T) {
	cases := map[string]bool{
		"2026-03-01T10:30:00Z": true,
		"2026-03-01 10:30:00":  true,
		"2026-03-01":           true,
		"01/03/2026":           true,
		"yesterday":            false,
		"":                     false,
	}
	for in, want := range cases {
		if _, got := validate.Date(in); got != want {
			t.Errorf("Date(%q) ok=%v, want %v", in, got, want)
		}
	}
}

func TestNotes(t *testing.T) {
	if got := validate.Notes("  troca de óleo  "); got != "troca de óleo" {
		t.Fatalf("want trimmed notes, got %q", got)
	}

	// the cap never leaves half a rune behind
	long := strings.Repeat("a", 499) + "ção"
	got := validate.Notes(long)
	if len(got) > 500 {
		t.Fatalf("notes not capped: %d bytes", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got[490:])
	}
	if got != strings.Repeat("a", 499) {
		t.Fatalf("want cut on the rune boundary, got %d bytes", len(got))
	}
}

func TestQtyAndPrice(t *testing.T) {
	if validate.Qty(0) || validate.Qty(-3) || validate.Qty(10001) {
		t.Fatal("out-of-range qty accepted")
	}
	if !validate.Qty(1) || !validate.Qty(50) {
		t.Fatal("valid qty rejected")
	}
	if validate.Price(-0.01) {
		t.Fatal("negative price accepted")
	}
	if !validate.Price(0) || !validate.Price(99.90) {
		t.Fatal("valid price rejected")
	}
}

func TestPassword(t *testing.T) {
	good := "Passw0rd!"
	if !validate.Password(good) {
		t.Fatal("want strong password accepted")
	}
	for _, bad := range []string{"short1!", "alllowercase1!", "NOLOWER1!", "NoDigits!!", "NoSymbol11a"} {
		if validate.Password(bad) {
			t.Errorf("password %q should be rejected", bad)
		}
	}
}

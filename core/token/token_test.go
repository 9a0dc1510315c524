package token

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStripPunct(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"rex", "rex"},
		{"rex.", "rex"},
		{"rex,;:", "rex"},
		{"rex]", "rex]"},
		{"rex].", "rex]"},
		{"[rex", "[rex"},
		{"...", ""},
		{"rex.]", "rex.]"},
		{"dux»", "dux»"},
	}
	for _, tt := range tests {
		if got := StripPunct(tt.in); got != tt.want {
			t.Errorf("StripPunct(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMakeLower(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Rex", "rex"},
		{"REX", "REX"},
		{"rEx", "rex"},
		{"IX", "IX"},
		{"A1", "A1"},
		{"12", "12"},
		{"", ""},
		{"ΟΔΟΣ", "ΟΔΟΣ"},
		{"Οδος", "οδος"},
		{"ǅemal", "ǆemal"},
	}
	for _, tt := range tests {
		if got := MakeLower(tt.in); got != tt.want {
			t.Errorf("MakeLower(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMakeLowerIdempotent(t *testing.T) {
	words := []string{"Rex", "REX", "Marculfus", "P12a", "ǅemal", "IN NOMINE", "et", "Ἰησοῦς"}
	for _, w := range words {
		once := MakeLower(w)
		if twice := MakeLower(once); twice != once {
			t.Errorf("MakeLower not idempotent for %q: %q then %q", w, once, twice)
		}
	}
}

func TestNormalize(t *testing.T) {
	if n, ok := Normalize("Regis,"); !ok || n != "regis" {
		t.Errorf("Normalize(Regis,) = %q, %v", n, ok)
	}
	if n, ok := Normalize(".,"); ok || n != "" {
		t.Errorf("Normalize(.,) = %q, %v, want empty", n, ok)
	}
	if n, ok := Normalize("DEI."); !ok || n != "DEI" {
		t.Errorf("Normalize(DEI.) = %q, %v", n, ok)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("In nomine  DEI,\n- Domino [et] .")
	want := []Token{
		{Raw: "In", Norm: "in"},
		{Raw: "nomine", Norm: "nomine"},
		{Raw: "DEI,", Norm: "DEI"},
		{Raw: "-", Norm: ""},
		{Raw: "Domino", Norm: "domino"},
		{Raw: "[et]", Norm: "[et]"},
		{Raw: ".", Norm: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
	}

	norm := Normalized(got)
	if diff := cmp.Diff([]string{"in", "nomine", "DEI", "domino", "[et]"}, norm); diff != "" {
		t.Errorf("Normalized() mismatch (-want +got):\n%s", diff)
	}
}

func TestBaseText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain", "In nomine Dei", []string{"In", "nomine", "Dei"}},
		{"inner punctuation", "rex , dux", []string{"rex ,", "dux"}},
		{"leading punctuation", "- rex dux", []string{"- rex", "dux"}},
		{"leading stripped", ". rex", []string{". rex"}},
		{"only punctuation", ". ;", []string{}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.text)
			got := BaseText(tokens)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BaseText() mismatch (-want +got):\n%s", diff)
			}
			if len(got) != len(Normalized(tokens)) {
				t.Errorf("BaseText has %d entries, Normalized has %d", len(got), len(Normalized(tokens)))
			}
		})
	}
}

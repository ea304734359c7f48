package service_test

import (
	"reflect"
	"testing"

	"github.com/lshigami/askedagain/internal/service"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: []string{}},
		{name: "too short", text: "ab", want: []string{}},
		{name: "short after trim", text: "  ab  ", want: []string{}},
		{name: "lowercases", text: "Cardiac Preload", want: []string{"cardiac", "preload"}},
		{name: "drops short tokens", text: "what is the RAAS", want: []string{"what", "the", "raas"}},
		{name: "dedupes in order", text: "preload PRELOAD afterload preload", want: []string{"preload", "afterload"}},
		{name: "splits punctuation", text: "Na+/K+-ATPase: pump's role?", want: []string{"atpase", "pump", "role"}},
		{name: "keeps digits", text: "Type 2 diabetes 2023", want: []string{"type", "diabetes", "2023"}},
		{name: "caps at five", text: "alpha beta gamma delta epsilon zeta eta", want: []string{"alpha", "beta", "gamma", "delta", "epsilon"}},
		{name: "unicode letters", text: "Qué es la presión arterial", want: []string{"qué", "presión", "arterial"}},
		{name: "only short words", text: "a an of to", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

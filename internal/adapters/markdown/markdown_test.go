package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		contains    string
		notContains string
	}{
		{name: "empty", in: "", contains: ""},
		{name: "emphasis", in: "Certified **kettlebell** coach", contains: "<strong>kettlebell</strong>"},
		{name: "hard wraps", in: "line one\nline two", contains: "<br"},
		{name: "raw html dropped", in: "<script>alert(1)</script>", notContains: "<script>"},
		{name: "links", in: "see https://fitpro.test", contains: `href="https://fitpro.test"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.in)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.in, got, tt.contains)
			}
			if tt.notContains != "" && strings.Contains(got, tt.notContains) {
				t.Errorf("ToHTML(%q) = %q, must not contain %q", tt.in, got, tt.notContains)
			}
		})
	}
}

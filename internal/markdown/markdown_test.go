package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{"heading with id", "## Responsibilities", []string{`<h2 id="responsibilities">Responsibilities</h2>`}},
		{"list", "- Go\n- SQL", []string{"<ul>", "<li>Go</li>", "<li>SQL</li>"}},
		{"gfm table", "| a | b |\n|---|---|\n| 1 | 2 |", []string{"<table>", "<td>1</td>"}},
		{"hard wraps", "line one\nline two", []string{"line one<br>"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.source)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Expected %q in output, got %q", w, got)
				}
			}
		})
	}
}

func TestRender_OmitsRawHTML(t *testing.T) {
	got, err := NewRenderer().Render("<script>alert(1)</script>\n\ntext")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("Expected raw HTML to be omitted, got %q", got)
	}
}

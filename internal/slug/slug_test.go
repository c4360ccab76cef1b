package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"already lowercase", "hello", "hello"},
		{"punctuation collapses", "Hello, World!", "hello-world"},
		{"multiple separators collapse", "a  --  b", "a-b"},
		{"accents fold", "Éléphant à l'école", "elephant-a-l-ecole"},
		{"numbers survive", "Go 1.24 released", "go-1-24-released"},
		{"leading and trailing junk trimmed", "  ...Hello...  ", "hello"},
		{"empty input", "", ""},
		{"only junk", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.title); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

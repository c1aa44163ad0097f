package catalog

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Canadian Gold Maple Leaf", "canadian-gold-maple-leaf"},
		{"  PAMP Suisse -- 1oz Bar!  ", "pamp-suisse-1oz-bar"},
		{"999.9 Fine", "999-9-fine"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

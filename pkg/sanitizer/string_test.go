package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  hello  ",
			want:  "hello",
		},
		{
			name:  "multiple spaces",
			input: "hello    world",
			want:  "hello world",
		},
		{
			name:  "tabs and newlines",
			input: "hello\t\nworld",
			want:  "hello world",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trim spaces", "  Jeanne Dupont  ", "Jeanne Dupont"},
		{"collapse inner spaces", "Jeanne    Dupont", "Jeanne Dupont"},
		{"accents preserved", " Hélène Lefèvre ", "Hélène Lefèvre"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" Jeanne@Example.FR ", "jeanne@example.fr"},
		{"a@b.c", "a@b.c"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeMessage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"keeps line breaks", "Bonjour,\n  nous   arrivons tard.\n", "Bonjour,\nnous arrivons tard."},
		{"single line", "  merci  ", "merci"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMessage(tt.input); got != tt.want {
				t.Errorf("NormalizeMessage(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"journalier", "JOURNALIER"},
		{" 2  nuits ", "2 NUITS"},
		{"Hebdomadaire", "HEBDOMADAIRE"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLabel(tt.input); got != tt.want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeExtension(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Photo.JPEG", ".jpeg"},
		{"salon.png", ".png"},
		{"archive.tar.gz", ".gz"},
		{"noext", ""},
		{"weird.p n@g", ".png"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeExtension(tt.input); got != tt.want {
			t.Errorf("SanitizeExtension(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeSortOrder(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{-5, MinSortOrder},
		{0, 0},
		{42, 42},
		{MaxSortOrder + 1, MaxSortOrder},
	}

	for _, tt := range tests {
		if got := NormalizeSortOrder(tt.input); got != tt.want {
			t.Errorf("NormalizeSortOrder(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

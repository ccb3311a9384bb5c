package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "french national format",
			input: "0612345678",
			want:  "+33612345678",
		},
		{
			name:  "french with spaces",
			input: "06 12 34 56 78",
			want:  "+33612345678",
		},
		{
			name:  "french with dots",
			input: "06.12.34.56.78",
			want:  "+33612345678",
		},
		{
			name:  "international french",
			input: "+33 6 12 34 56 78",
			want:  "+33612345678",
		},
		{
			name:  "foreign number keeps its country code",
			input: "+1 (212) 555-1234",
			want:  "+12125551234",
		},
		{
			name:  "leading and trailing spaces",
			input: "  +33612345678  ",
			want:  "+33612345678",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "unparseable kept as typed",
			input: "  call   me  ",
			want:  "call me",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"06 12 34 56 78", "+1 212 555 1234", "call me"}
	for _, in := range inputs {
		once := NormalizePhone(in)
		if twice := NormalizePhone(once); twice != once {
			t.Errorf("NormalizePhone not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

package util

import "testing"

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "hello", "world"); got != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}
	if got := Coalesce(0, 0, 42); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in      string
		visible int
		want    string
	}{
		{"Bearer eyJhbGciOi", 7, "Bearer ***"},
		{"short", 7, "***"},
		{"", 0, "***"},
	}
	for _, tc := range tests {
		if got := MaskSecret(tc.in, tc.visible); got != tc.want {
			t.Errorf("MaskSecret(%q, %d) = %q, want %q", tc.in, tc.visible, got, tc.want)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 7},
		{"1MB", 1 << 20},
		{"512kb", 512 << 10},
		{"2 GB", 2 << 30},
		{"100B", 100},
		{"42", 42},
		{"lots", 7},
		{"-1MB", 7},
	}
	for _, tc := range tests {
		if got := ParseSize(tc.in, 7); got != tc.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

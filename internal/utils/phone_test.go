package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"+1 (555) 123-4567", "15551234567", true},
		{"12345678", "12345678", true},              // 8 digits, lower bound
		{"123456789012345", "123456789012345", true}, // 15 digits, upper bound
		{"1234567", "", false},                       // 7 digits, too short
		{"1234567890123456", "", false},              // 16 digits, too long
		{"", "", false},
		{"abc-def", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizePhone(tc.in)
		if ok != tc.valid {
			t.Fatalf("NormalizePhone(%q) valid = %v, want %v", tc.in, ok, tc.valid)
		}
		if ok && got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

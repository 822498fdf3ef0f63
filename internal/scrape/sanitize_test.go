package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeRemovesSymbols(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"😀", ""},
		{"🚀🌸☀", ""},
		{"服務很好😀", "服務很好"},
		{"↑推薦↓", "推薦"},
		{"🏥醫院🏥", "醫院"},
		{"⚡快速⚡服務", "快速服務"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Sanitize(tc.input), "input: %q", tc.input)
	}
}

func TestSanitizeKeepsOrdinaryText(t *testing.T) {
	testCases := []string{
		"",
		"很好",
		"The staff was friendly.",
		"等了30分鐘, 還可以",
		"醫生很親切！護士也很專業。",
	}

	for _, tc := range testCases {
		assert.Equal(t, tc, Sanitize(tc), "input: %q", tc)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"服務很好😀",
		"🚀",
		"很好",
		"",
		"↑🏥醫院 還不錯🏥↓",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input: %q", in)
	}
}

package scrape

import (
	"strings"
	"unicode"
)

// blockedRanges covers the pictographic and symbolic code points stripped
// from review text before it enters the pipeline: emoji, dingbats, arrows,
// enclosed alphanumerics, flags and miscellaneous symbols, plus the general
// punctuation block carrying presentation marks like ‼ and ⁉.
var blockedRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2000, Hi: 0x206F, Stride: 1}, // general punctuation
		{Lo: 0x2190, Hi: 0x21FF, Stride: 1}, // arrows
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1}, // miscellaneous symbols
		{Lo: 0x2700, Hi: 0x27BF, Stride: 1}, // dingbats
		{Lo: 0x2B00, Hi: 0x2BFF, Stride: 1}, // supplemental arrows and symbols
	},
	R32: []unicode.Range32{
		{Lo: 0x1F100, Hi: 0x1F1FF, Stride: 1}, // enclosed alphanumerics, regional indicators
		{Lo: 0x1F200, Hi: 0x1F2FF, Stride: 1}, // enclosed ideographs
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // pictographs
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // emoticons
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // transport symbols
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1}, // supplemental symbols
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1}, // symbols extended-A
	},
}

// Sanitize removes pictographic and symbolic code points from text.
// It is pure and idempotent; ordinary text outside the blocked ranges
// passes through unchanged.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.Is(blockedRanges, r) {
			return -1
		}
		return r
	}, text)
}

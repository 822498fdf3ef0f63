// Package region maps free-text hospital addresses to one of a fixed set
// of Taiwanese region labels by ordered substring matching.
package region

import "strings"

// Region labels returned by Infer
const (
	North   = "north"
	Central = "central"
	South   = "south"
	East    = "east"
)

type localityRegion struct {
	locality string
	region   string
}

// countyTable is an ordered priority list, not a map: Infer returns the
// region of the first locality found in the address, so iteration order
// must stay deterministic. Traditional and simplified spellings of the
// same county map to the same region.
var countyTable = []localityRegion{
	{"台北", North},
	{"臺北", North},
	{"新北", North},
	{"基隆", North},
	{"桃園", North},
	{"新竹", North},
	{"宜蘭", North},
	{"台中", Central},
	{"臺中", Central},
	{"苗栗", Central},
	{"彰化", Central},
	{"南投", Central},
	{"雲林", Central},
	{"台南", South},
	{"臺南", South},
	{"高雄", South},
	{"嘉義", South},
	{"屏東", South},
	{"花蓮", East},
	{"台東", East},
	{"臺東", East},
}

// Infer returns the region label of the first known locality substring
// found in address, or the empty string when address is empty or no
// locality occurs.
func Infer(address string) string {
	if address == "" {
		return ""
	}
	for _, entry := range countyTable {
		if strings.Contains(address, entry.locality) {
			return entry.region
		}
	}
	return ""
}

// utils/countries.go
package utils

import "strings"

// Upstream dataset names that do not line up with the ISO reference table.
var countryAliases = map[string]string{
	"us":             "united states of america",
	"korea, south":   "korea (the republic of)",
	"south korea":    "korea (the republic of)",
	"russia":         "russian federation",
	"vietnam":        "viet nam",
	"iran":           "iran (islamic republic of)",
	"bolivia":        "bolivia (plurinational state of)",
	"venezuela":      "venezuela (bolivarian republic of)",
	"syria":          "syrian arab republic",
	"moldova":        "moldova (the republic of)",
	"tanzania":       "tanzania, united republic of",
	"laos":           "lao people's democratic republic",
	"brunei":         "brunei darussalam",
	"burma":          "myanmar",
	"cabo verde":     "cape verde",
	"czechia":        "czech republic",
	"united kingdom": "united kingdom of great britain and northern ireland",
}

// NormalizeCountryName lowers and trims a country name so the CSSE spelling
// and the ISO reference table spelling can be compared. Trailing asterisks
// (e.g. "Taiwan*") and "(the)" suffixes are dropped.
func NormalizeCountryName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, "*")
	n = strings.ReplaceAll(n, " (the)", "")
	n = strings.Join(strings.Fields(n), " ")
	if alias, ok := countryAliases[n]; ok {
		return alias
	}
	return n
}

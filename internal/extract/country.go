package extract

import "strings"

// countryNames maps ISO 3166-1 alpha-2 codes to display names.
var countryNames = map[string]string{
	"AD": "Andorra", "AE": "United Arab Emirates", "AL": "Albania",
	"AM": "Armenia", "AR": "Argentina", "AT": "Austria", "AU": "Australia",
	"AZ": "Azerbaijan", "BA": "Bosnia and Herzegovina", "BD": "Bangladesh",
	"BE": "Belgium", "BG": "Bulgaria", "BM": "Bermuda", "BN": "Brunei",
	"BO": "Bolivia", "BR": "Brazil", "BS": "Bahamas", "BT": "Bhutan",
	"BZ": "Belize", "CA": "Canada", "CH": "Switzerland", "CL": "Chile",
	"CO": "Colombia", "CR": "Costa Rica", "CY": "Cyprus", "CZ": "Czech Republic",
	"DE": "Germany", "DK": "Denmark", "DO": "Dominican Republic", "DZ": "Algeria",
	"EC": "Ecuador", "EE": "Estonia", "EG": "Egypt", "ES": "Spain",
	"FI": "Finland", "FR": "France", "GE": "Georgia", "GH": "Ghana",
	"GR": "Greece", "GT": "Guatemala", "HK": "Hong Kong", "HN": "Honduras",
	"HR": "Croatia", "HT": "Haiti", "HU": "Hungary", "ID": "Indonesia",
	"IE": "Ireland", "IL": "Israel", "IM": "Isle of Man", "IN": "India",
	"IS": "Iceland", "IT": "Italy", "JE": "Jersey", "JM": "Jamaica",
	"JO": "Jordan", "JP": "Japan", "KE": "Kenya", "KH": "Cambodia",
	"KR": "South Korea", "KY": "Cayman Islands", "KZ": "Kazakhstan",
	"LA": "Laos", "LB": "Lebanon", "LI": "Liechtenstein", "LK": "Sri Lanka",
	"LT": "Lithuania", "LU": "Luxembourg", "LV": "Latvia", "MA": "Morocco",
	"MC": "Monaco", "MD": "Moldova", "ME": "Montenegro", "MK": "North Macedonia",
	"MM": "Myanmar", "MN": "Mongolia", "MO": "Macau", "MT": "Malta",
	"MX": "Mexico", "MY": "Malaysia", "NG": "Nigeria", "NI": "Nicaragua",
	"NL": "Netherlands", "NO": "Norway", "NP": "Nepal", "NZ": "New Zealand",
	"PA": "Panama", "PE": "Peru", "PG": "Papua New Guinea", "PH": "Philippines",
	"PK": "Pakistan", "PL": "Poland", "PR": "Puerto Rico", "PT": "Portugal",
	"PY": "Paraguay", "RO": "Romania", "RS": "Serbia", "SA": "Saudi Arabia",
	"SE": "Sweden", "SG": "Singapore", "SI": "Slovenia", "SK": "Slovakia",
	"TH": "Thailand", "TR": "Turkey", "TT": "Trinidad and Tobago",
	"TW": "Taiwan", "UA": "Ukraine", "UK": "United Kingdom",
	"US": "United States", "UY": "Uruguay", "VE": "Venezuela",
	"VN": "Vietnam", "ZA": "South Africa",
}

// CountryName returns the display name for a two-letter country code,
// or "Unknown" when the code is empty or unrecognized.
func CountryName(code string) string {
	if name, ok := countryNames[strings.ToUpper(code)]; ok {
		return name
	}
	return "Unknown"
}

// CountryCode extracts the country code from an IPVanish-style file name,
// e.g. "ipvanish-CH-Zurich-zrh-c18.ovpn" yields "CH". Returns "" when the
// name does not match the pattern.
func CountryCode(filename string) string {
	const prefix = "ipvanish-"
	if !strings.HasPrefix(filename, prefix) {
		return ""
	}
	rest := filename[len(prefix):]
	if len(rest) < 3 || rest[2] != '-' {
		return ""
	}
	code := strings.ToUpper(rest[:2])
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return code
}

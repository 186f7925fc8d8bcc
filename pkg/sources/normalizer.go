package sources

import (
	"regexp"
	"strings"
)

// nameSuffixes strips common legal suffixes for cleaner product/company names.
var nameSuffixes = regexp.MustCompile(`(?i)\s*(,?\s*(Inc\.?|LLC|Ltd\.?|Corp\.?|Co\.?))\s*$`)

// countryNames maps common abbreviations and variants to canonical names.
var countryNames = map[string]string{
	"usa":                      "United States",
	"us":                       "United States",
	"united states of america": "United States",
	"uk":                       "United Kingdom",
	"gb":                       "United Kingdom",
	"great britain":            "United Kingdom",
	"prc":                      "China",
	"cn":                       "China",
	"de":                       "Germany",
	"fr":                       "France",
	"jp":                       "Japan",
	"kr":                       "South Korea",
	"ca":                       "Canada",
	"au":                       "Australia",
	"il":                       "Israel",
	"sg":                       "Singapore",
	"in":                       "India",
	"se":                       "Sweden",
	"no":                       "Norway",
}

// countryCodes maps canonical country names to ISO 3166-1 alpha-2 codes.
var countryCodes = map[string]string{
	"United States":  "US",
	"United Kingdom": "GB",
	"China":          "CN",
	"Germany":        "DE",
	"France":         "FR",
	"Japan":          "JP",
	"South Korea":    "KR",
	"Canada":         "CA",
	"Australia":      "AU",
	"Israel":         "IL",
	"Singapore":      "SG",
	"India":          "IN",
	"Sweden":         "SE",
	"Norway":         "NO",
}

// Normalize returns a copy of the record with names trimmed of legal
// suffixes, URLs stripped of fragments and trailing slashes, and country
// fields mapped to canonical names and ISO codes. Producers are not
// required to normalize; the pipeline runs this before deduplication.
func Normalize(r ScrapedRecord) ScrapedRecord {
	out := r
	out.Name = NormalizeName(r.Name)
	out.CompanyName = NormalizeName(r.CompanyName)
	out.ProductURL = NormalizeURL(r.ProductURL)
	out.CompanyWebsite = NormalizeURL(r.CompanyWebsite)
	out.RepositoryURL = NormalizeURL(r.RepositoryURL)
	out.CompanyHQCountry = NormalizeCountry(r.CompanyHQCountry)
	if out.CompanyHQCountryCode == "" {
		out.CompanyHQCountryCode = countryCodes[out.CompanyHQCountry]
	}
	return out
}

// NormalizeName trims whitespace and common legal suffixes.
func NormalizeName(name string) string {
	return nameSuffixes.ReplaceAllString(strings.TrimSpace(name), "")
}

// NormalizeURL strips the fragment and any trailing slash.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if i := strings.IndexByte(url, '#'); i >= 0 {
		url = url[:i]
	}
	return strings.TrimRight(url, "/")
}

// NormalizeCountry maps abbreviations and variants to a canonical country name.
func NormalizeCountry(country string) string {
	country = strings.TrimSpace(country)
	if country == "" {
		return ""
	}
	if canonical, ok := countryNames[strings.ToLower(country)]; ok {
		return canonical
	}
	return country
}

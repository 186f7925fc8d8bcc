package merge

import (
	"github.com/aidirectory/lodestar/pkg/sources"
)

// fieldKind distinguishes the three merge behaviors.
type fieldKind int

const (
	// kindScalar fields are written whole, gated by the tier rule.
	kindScalar fieldKind = iota

	// kindList fields union incoming items into the existing array.
	kindList

	// kindCompound fields are small sub-objects that represent a single
	// fact from one source (a pricing block, a funding block); they merge
	// like scalars and carry one provenance entry for the whole subtree.
	kindCompound
)

// fieldSpec binds a document path to the record field that feeds it.
// extract returns nil when the record does not carry the field.
type fieldSpec struct {
	path    string
	kind    fieldKind
	extract func(r *sources.ScrapedRecord) any
}

// fieldSpecs is the full field vocabulary of the canonical document, in
// write order. Every mergeable leaf appears exactly once.
var fieldSpecs = []fieldSpec{
	// Product identity.
	{"name", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.Name) }},
	{"name_zh", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.NameZh) }},
	{"product_url", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.ProductURL) }},
	{"icon_url", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.IconURL) }},
	{"description", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.Description) }},
	{"description_zh", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.DescriptionZh) }},
	{"product_type", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.ProductType) }},
	{"category", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.Category) }},
	{"sub_category", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.SubCategory) }},
	{"tags", kindList, func(r *sources.ScrapedRecord) any { return strList(r.Tags) }},
	{"keywords", kindList, func(r *sources.ScrapedRecord) any { return strList(r.Keywords) }},

	// Company facts.
	{"company.name", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.CompanyName) }},
	{"company.name_zh", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.CompanyNameZh) }},
	{"company.website", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.CompanyWebsite) }},
	{"company.founded_year", kindScalar, func(r *sources.ScrapedRecord) any { return num(r.CompanyFoundedYear) }},
	{"company.employee_count_range", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.CompanyEmployeeCountRange) }},
	{"company.headquarters", kindCompound, headquartersBlock},
	{"company.funding", kindCompound, fundingBlock},

	// Tech specs.
	{"architecture", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.Architecture) }},
	{"parameter_count", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.ParameterCount) }},
	{"context_window", kindScalar, func(r *sources.ScrapedRecord) any { return num64(r.ContextWindow) }},
	{"modalities", kindList, func(r *sources.ScrapedRecord) any { return strList(r.Modalities) }},
	{"platforms", kindList, func(r *sources.ScrapedRecord) any { return strList(r.Platforms) }},

	// Openness.
	{"open_source", kindScalar, func(r *sources.ScrapedRecord) any { return boolPtr(r.OpenSource) }},
	{"license", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.License) }},
	{"repository_url", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.RepositoryURL) }},
	{"github_stars", kindScalar, func(r *sources.ScrapedRecord) any { return num(r.GithubStars) }},

	// Pricing.
	{"api_available", kindScalar, func(r *sources.ScrapedRecord) any { return boolPtr(r.APIAvailable) }},
	{"pricing", kindCompound, pricingBlock},

	// Market and relations.
	{"target_audience", kindList, func(r *sources.ScrapedRecord) any { return strList(r.TargetAudience) }},
	{"use_cases", kindList, func(r *sources.ScrapedRecord) any { return strList(r.UseCases) }},
	{"competitors", kindList, func(r *sources.ScrapedRecord) any { return strList(r.Competitors) }},
	{"based_on", kindList, func(r *sources.ScrapedRecord) any { return strList(r.BasedOn) }},

	// Lifecycle.
	{"status", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.Status) }},
	{"release_date", kindScalar, func(r *sources.ScrapedRecord) any { return str(r.ReleaseDate) }},

	// Hiring (the only subtree the auxiliary tier may write).
	{"hiring.is_hiring", kindScalar, hiringFlag},
	{"hiring.positions", kindList, positionsList},
	{"hiring.tech_stack", kindList, func(r *sources.ScrapedRecord) any { return strList(r.HiringTechStack) }},

	// People and social links.
	{"key_people", kindList, peopleList},
	{"social", kindCompound, socialBlock},
}

// str returns a non-empty string or nil.
func str(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// num returns a non-zero int or nil.
func num(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

// num64 returns a non-zero int64 or nil.
func num64(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}

// boolPtr dereferences an optional bool; nil means unknown.
func boolPtr(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

// strList converts a string slice to the document's generic array form.
func strList(items []string) any {
	if len(items) == 0 {
		return nil
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

// headquartersBlock assembles the headquarters compound value. The block
// is one fact from one source, so it carries a single provenance entry.
func headquartersBlock(r *sources.ScrapedRecord) any {
	if r.CompanyHQCity == "" && r.CompanyHQCountry == "" && r.CompanyHQCountryCode == "" {
		return nil
	}
	block := make(map[string]any)
	if r.CompanyHQCity != "" {
		block["city"] = r.CompanyHQCity
	}
	if r.CompanyHQCountry != "" {
		block["country"] = r.CompanyHQCountry
	}
	if r.CompanyHQCountryCode != "" {
		block["country_code"] = r.CompanyHQCountryCode
	}
	return block
}

// fundingBlock assembles the funding compound value.
func fundingBlock(r *sources.ScrapedRecord) any {
	if r.CompanyTotalRaisedUSD == 0 && r.CompanyLastRound == "" {
		return nil
	}
	block := make(map[string]any)
	if r.CompanyTotalRaisedUSD != 0 {
		block["total_raised_usd"] = r.CompanyTotalRaisedUSD
	}
	if r.CompanyLastRound != "" {
		block["last_round"] = r.CompanyLastRound
	}
	return block
}

// pricingBlock assembles the pricing compound value.
func pricingBlock(r *sources.ScrapedRecord) any {
	if r.PricingModel == "" && r.HasFreeTier == nil {
		return nil
	}
	block := make(map[string]any)
	if r.PricingModel != "" {
		block["model"] = r.PricingModel
	}
	if r.HasFreeTier != nil {
		block["has_free_tier"] = *r.HasFreeTier
	}
	return block
}

// socialBlock assembles the social-links compound value.
func socialBlock(r *sources.ScrapedRecord) any {
	if r.GithubURL == "" && r.Twitter == "" && r.LinkedinURL == "" {
		return nil
	}
	block := make(map[string]any)
	if r.GithubURL != "" {
		block["github"] = r.GithubURL
	}
	if r.Twitter != "" {
		block["twitter"] = r.Twitter
	}
	if r.LinkedinURL != "" {
		block["linkedin"] = r.LinkedinURL
	}
	return block
}

// hiringFlag is derived: a record carrying open positions implies the
// company is hiring.
func hiringFlag(r *sources.ScrapedRecord) any {
	if len(r.HiringPositions) == 0 {
		return nil
	}
	return true
}

// positionsList converts hiring positions to the document's array form.
func positionsList(r *sources.ScrapedRecord) any {
	if len(r.HiringPositions) == 0 {
		return nil
	}
	out := make([]any, 0, len(r.HiringPositions))
	for _, p := range r.HiringPositions {
		item := map[string]any{"title": p.Title}
		if p.Location != "" {
			item["location"] = p.Location
		}
		if p.URL != "" {
			item["url"] = p.URL
		}
		out = append(out, item)
	}
	return out
}

// peopleList converts key people to the document's array form.
func peopleList(r *sources.ScrapedRecord) any {
	if len(r.KeyPeople) == 0 {
		return nil
	}
	out := make([]any, 0, len(r.KeyPeople))
	for _, p := range r.KeyPeople {
		item := map[string]any{"name": p.Name}
		if p.Role != "" {
			item["role"] = p.Role
		}
		out = append(out, item)
	}
	return out
}

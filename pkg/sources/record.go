// Package sources defines the producer contract for the lodestar pipeline:
// the immutable ScrapedRecord shape that fetch adapters emit, the trust
// tiers attached to each record, and the Scraper interfaces the pipeline
// consumes. The package makes no assumptions about how records are
// obtained — HTTP, file, API, or an LLM are all equivalent producers.
package sources

import "context"

// Position describes one open role attached to a hiring record.
type Position struct {
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Person identifies a founder or executive attached to a record.
type Person struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// ScrapedRecord is an immutable record about one AI product, produced by a
// single source. Only Name and Source are required; absent fields mean
// "unknown", not "empty". Collections are treated as sets when merged.
type ScrapedRecord struct {
	// Required producer identity.
	Name      string `json:"name"`
	Source    string `json:"source"`
	SourceURL string `json:"source_url,omitempty"`
	Tier      Tier   `json:"source_tier,omitempty"`

	// Product identity.
	NameZh        string   `json:"name_zh,omitempty"`
	ProductURL    string   `json:"product_url,omitempty"`
	IconURL       string   `json:"icon_url,omitempty"`
	Description   string   `json:"description,omitempty"`
	DescriptionZh string   `json:"description_zh,omitempty"`
	ProductType   string   `json:"product_type,omitempty"`
	Category      string   `json:"category,omitempty"`
	SubCategory   string   `json:"sub_category,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`

	// Company facts.
	CompanyName               string  `json:"company_name,omitempty"`
	CompanyNameZh             string  `json:"company_name_zh,omitempty"`
	CompanyWebsite            string  `json:"company_website,omitempty"`
	CompanyWikipediaURL       string  `json:"company_wikipedia_url,omitempty"`
	CompanyFoundedYear        int     `json:"company_founded_year,omitempty"`
	CompanyHQCity             string  `json:"company_headquarters_city,omitempty"`
	CompanyHQCountry          string  `json:"company_headquarters_country,omitempty"`
	CompanyHQCountryCode      string  `json:"company_headquarters_country_code,omitempty"`
	CompanyTotalRaisedUSD     float64 `json:"company_total_raised_usd,omitempty"`
	CompanyLastRound          string  `json:"company_last_round,omitempty"`
	CompanyEmployeeCountRange string  `json:"company_employee_count_range,omitempty"`

	// Tech specs.
	Architecture   string   `json:"architecture,omitempty"`
	ParameterCount string   `json:"parameter_count,omitempty"`
	ContextWindow  int64    `json:"context_window,omitempty"`
	Modalities     []string `json:"modalities,omitempty"`
	Platforms      []string `json:"platforms,omitempty"`

	// Openness.
	OpenSource    *bool  `json:"open_source,omitempty"`
	License       string `json:"license,omitempty"`
	RepositoryURL string `json:"repository_url,omitempty"`
	GithubStars   int    `json:"github_stars,omitempty"`

	// Pricing.
	APIAvailable *bool  `json:"api_available,omitempty"`
	PricingModel string `json:"pricing_model,omitempty"`
	HasFreeTier  *bool  `json:"has_free_tier,omitempty"`

	// Market.
	TargetAudience []string `json:"target_audience,omitempty"`
	UseCases       []string `json:"use_cases,omitempty"`

	// Relations to other entities, by slug.
	Competitors []string `json:"competitors,omitempty"`
	BasedOn     []string `json:"based_on,omitempty"`

	// Lifecycle.
	Status      string `json:"status,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`

	// Hiring signals (the only subtree T4 sources may write).
	HiringPositions []Position `json:"hiring_positions,omitempty"`
	HiringTechStack []string   `json:"hiring_tech_stack,omitempty"`

	// People and social links.
	KeyPeople   []Person `json:"key_people,omitempty"`
	GithubURL   string   `json:"github_url,omitempty"`
	Twitter     string   `json:"twitter,omitempty"`
	LinkedinURL string   `json:"linkedin_url,omitempty"`

	// Free-form extras carried through for audit, never merged.
	Extra map[string]string `json:"extra,omitempty"`
}

// EffectiveTier returns the record's tier, defaulting mid-tier when the
// producer did not declare one.
func (r *ScrapedRecord) EffectiveTier() Tier {
	if r.Tier.Valid() {
		return r.Tier
	}
	return DefaultTier
}

// Scraper is the producer contract implemented by fetch adapters.
// Implementations live outside the core pipeline.
type Scraper interface {
	// SourceName returns the opaque source identifier (e.g. "crunchbase").
	SourceName() string

	// SourceTier returns the trust tier of records from this source.
	SourceTier() Tier

	// Scrape returns up to limit records from this source.
	Scrape(ctx context.Context, limit int) ([]ScrapedRecord, error)
}

// Discoverer is an optional lightweight variant that yields product names
// without full records, for sources that can enumerate cheaply.
type Discoverer interface {
	// Discover returns up to limit product names known to this source.
	Discover(ctx context.Context, limit int) ([]string, error)
}

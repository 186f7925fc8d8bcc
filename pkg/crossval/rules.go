package crossval

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/aidirectory/lodestar/pkg/errors"
)

// Rules configures the validator's URL checks. The built-in defaults
// cover the aggregator/directory sites the scrapers are known to visit;
// deployments can extend the list from a YAML file.
type Rules struct {
	// AggregatorDomains are bare domains that can never be a product_url:
	// a URL there is a listing about the product, not the product itself.
	AggregatorDomains []string `yaml:"aggregator_domains"`
}

// DefaultRules returns the built-in aggregator blocklist.
func DefaultRules() Rules {
	return Rules{
		AggregatorDomains: []string{
			"ai-bot.cn",
			"ainav.cn",
			"theresanaiforthat.com",
			"toolify.ai",
			"futurepedia.io",
			"alternativeto.net",
			"producthunt.com",
			"crunchbase.com",
			"pitchbook.com",
			"ycombinator.com",
		},
	}
}

// LoadRules reads a rules file and merges it over the defaults: domains
// in the file extend the built-in blocklist rather than replacing it.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()

	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		return rules, errors.WrapIO("read", path, err)
	}

	var loaded Rules
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return rules, errors.WrapParse("yaml", path, err)
	}

	rules.AggregatorDomains = append(rules.AggregatorDomains, loaded.AggregatorDomains...)
	return rules, nil
}

// domainSet builds the lookup set used by the URL check.
func (r Rules) domainSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.AggregatorDomains))
	for _, d := range r.AggregatorDomains {
		set[d] = struct{}{}
	}
	return set
}

package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"OpenAI, Inc.", "OpenAI"},
		{"Anthropic Inc", "Anthropic"},
		{"DeepMind Ltd.", "DeepMind"},
		{"Example Corp", "Example"},
		{"  Mistral AI  ", "Mistral AI"},
		{"Cohere", "Cohere"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://openai.com", NormalizeURL("https://openai.com/"))
	assert.Equal(t, "https://openai.com/pricing", NormalizeURL("https://openai.com/pricing#plans"))
	assert.Equal(t, "", NormalizeURL("  "))
}

func TestNormalizeCountry(t *testing.T) {
	assert.Equal(t, "United States", NormalizeCountry("USA"))
	assert.Equal(t, "United Kingdom", NormalizeCountry("uk"))
	assert.Equal(t, "China", NormalizeCountry("PRC"))
	assert.Equal(t, "France", NormalizeCountry("France"))
	assert.Equal(t, "Atlantis", NormalizeCountry("Atlantis"))
}

func TestNormalizeRecord(t *testing.T) {
	r := ScrapedRecord{
		Name:             "ChatGPT ",
		Source:           "test",
		CompanyName:      "OpenAI, Inc.",
		ProductURL:       "https://chat.openai.com/#main",
		CompanyHQCountry: "usa",
	}
	out := Normalize(r)

	assert.Equal(t, "ChatGPT", out.Name)
	assert.Equal(t, "OpenAI", out.CompanyName)
	assert.Equal(t, "https://chat.openai.com", out.ProductURL)
	assert.Equal(t, "United States", out.CompanyHQCountry)
	assert.Equal(t, "US", out.CompanyHQCountryCode)

	// Input is untouched.
	assert.Equal(t, "OpenAI, Inc.", r.CompanyName)
}

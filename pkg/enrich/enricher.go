// Package enrich fills classification gaps in canonical documents with an
// LLM. Model output is always emitted as an AI-generated (T3) record, so
// the merger will only use it where no scraped or curated value exists.
// Factual fields — funding, URLs, employee counts, people — are never
// enrichable; the hallucination risk outweighs the gain.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/aidirectory/lodestar/pkg/catalog"
	"github.com/aidirectory/lodestar/pkg/errors"
	"github.com/aidirectory/lodestar/pkg/logging"
	"github.com/aidirectory/lodestar/pkg/sources"
)

// DefaultModel is a fast model suited to classification work.
const DefaultModel = "gemini-2.0-flash"

// SourceName tags records produced by the enricher.
const SourceName = "llm-enrichment"

// enrichableFields maps response field names to document paths. Only
// classification and descriptive fields appear here.
var enrichableFields = map[string]string{
	"description":     "description",
	"description_zh":  "description_zh",
	"product_type":    "product_type",
	"category":        "category",
	"sub_category":    "sub_category",
	"tags":            "tags",
	"modalities":      "modalities",
	"platforms":       "platforms",
	"target_audience": "target_audience",
	"use_cases":       "use_cases",
	"architecture":    "architecture",
	"pricing_model":   "pricing.model",
	"has_free_tier":   "pricing.has_free_tier",
	"open_source":     "open_source",
	"api_available":   "api_available",
	"competitors":     "competitors",
	"status":          "status",
}

// Schema enums for constrained fields.
var (
	validProductTypes = []string{"llm", "app", "dev-tool", "hardware", "dataset", "framework", "api-service", "other"}
	validCategories   = []string{"ai-model", "ai-app", "ai-dev-tool", "ai-infrastructure", "ai-hardware", "ai-data", "ai-agent", "ai-search", "ai-security", "ai-science"}
	validStatuses     = []string{"active", "beta", "alpha", "announced", "deprecated", "discontinued"}
	validPricing      = []string{"free", "freemium", "paid", "enterprise", "usage-based", "open-source"}
)

// fieldOrder keeps prompts and gap reports deterministic.
var fieldOrder = []string{
	"description", "description_zh", "product_type", "category",
	"sub_category", "tags", "modalities", "platforms", "target_audience",
	"use_cases", "architecture", "pricing_model", "has_free_tier",
	"open_source", "api_available", "competitors", "status",
}

// Enricher asks a Gemini model to fill missing classification fields.
type Enricher struct {
	client *genai.Client
	model  string
}

// New builds an enricher against the Gemini API. The key is taken from
// GEMINI_API_KEY (or GOOGLE_API_KEY) when apiKey is empty.
func New(ctx context.Context, apiKey, model string) (*Enricher, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.ErrAPIKeyRequired
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultModel
	}
	return &Enricher{client: client, model: model}, nil
}

// IdentifyGaps returns the enrichable response-field names the document
// leaves empty, in stable order.
func IdentifyGaps(doc catalog.Document) []string {
	var gaps []string
	for _, field := range fieldOrder {
		if !doc.Has(enrichableFields[field]) {
			gaps = append(gaps, field)
		}
	}
	return gaps
}

// Enrich fills the document's gaps via the model and returns the result
// as an AI-generated record for the merger. A nil record with nil error
// means there was nothing to enrich or nothing usable came back.
func (e *Enricher) Enrich(ctx context.Context, doc catalog.Document) (*sources.ScrapedRecord, error) {
	gaps := IdentifyGaps(doc)
	if len(gaps) == 0 {
		logging.Debug().Str("slug", doc.Slug()).Msg("no enrichable gaps")
		return nil, nil
	}

	prompt := buildPrompt(doc, gaps)
	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, errors.WrapIO("enrich", doc.Slug(), err)
	}

	cleaned := parseResponse(resp.Text(), gaps)
	if len(cleaned) == 0 {
		logging.Warn().Str("slug", doc.Slug()).Msg("model returned no usable fields")
		return nil, nil
	}
	logging.Info().Str("slug", doc.Slug()).Int("fields", len(cleaned)).
		Str("model", e.model).Msg("enriched")
	return toRecord(doc, cleaned), nil
}

// buildPrompt assembles the context block and per-field instructions.
func buildPrompt(doc catalog.Document, gaps []string) string {
	var ctxParts []string
	add := func(label, value string) {
		if value != "" {
			ctxParts = append(ctxParts, label+": "+value)
		}
	}
	add("Product name", doc.Name())
	add("Chinese name", doc.StringAt(catalog.PathNameZh))
	add("Description", doc.StringAt(catalog.PathDescription))
	add("URL", doc.StringAt(catalog.PathProductURL))
	add("Company", doc.StringAt(catalog.PathCompanyName))
	add("Country", doc.StringAt("company.headquarters.country"))
	add("Category", doc.StringAt("category"))
	add("Product type", doc.StringAt("product_type"))
	if tags := doc.SliceAt("tags"); len(tags) > 0 {
		strs := make([]string, 0, len(tags))
		for _, t := range tags {
			if s, ok := t.(string); ok {
				strs = append(strs, s)
			}
		}
		add("Existing tags", strings.Join(strs, ", "))
	}

	var fieldLines []string
	for _, field := range gaps {
		fieldLines = append(fieldLines, fmt.Sprintf("  %q: %s", field, fieldInstruction(field)))
	}

	return fmt.Sprintf(`You are a data analyst enriching an AI product database.
Given the product information below, fill in the missing fields.

PRODUCT CONTEXT:
%s

INSTRUCTIONS:
- Only fill fields you are confident about based on the product context.
- Use null for fields you are uncertain about.
- For array fields, provide relevant items as JSON arrays.
- Keep descriptions concise and factual.
- For description_zh, translate or write a Chinese description.

Respond with ONLY a valid JSON object containing these fields:
{
%s
}`, strings.Join(ctxParts, "\n"), strings.Join(fieldLines, ",\n"))
}

// fieldInstruction describes the expected type and constraints per field.
func fieldInstruction(field string) string {
	switch field {
	case "description":
		return "string (10-200 chars, factual product description)"
	case "description_zh":
		return "string (Chinese description, 10-200 chars)"
	case "product_type":
		return "one of " + enumList(validProductTypes)
	case "category":
		return "one of " + enumList(validCategories)
	case "sub_category":
		return `string (specific sub-category slug, e.g. "text-generation")`
	case "tags":
		return "array of strings (3-8 relevant tags, kebab-case)"
	case "modalities":
		return `array of strings from: "text", "image", "audio", "video", "code", "multimodal"`
	case "platforms":
		return `array of strings from: "web", "ios", "android", "desktop", "api", "cli", "self-hosted"`
	case "target_audience":
		return `array of strings, e.g. ["developers", "enterprises", "researchers"]`
	case "use_cases":
		return `array of strings, e.g. ["code-generation", "chatbot", "content-creation"]`
	case "architecture":
		return `string (e.g. "transformer", "diffusion", "hybrid")`
	case "pricing_model":
		return "one of " + enumList(validPricing)
	case "has_free_tier", "open_source", "api_available":
		return "boolean"
	case "competitors":
		return `array of product slugs (kebab-case, e.g. ["chatgpt", "gemini"])`
	case "status":
		return "one of " + enumList(validStatuses)
	default:
		return "appropriate value"
	}
}

func enumList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// parseResponse decodes the model's JSON and keeps only requested fields
// that pass validation.
func parseResponse(text string, gaps []string) map[string]any {
	text = strings.TrimSpace(text)
	// Some models fence JSON in markdown despite instructions.
	if strings.HasPrefix(text, "```") {
		if lines := strings.Split(text, "\n"); len(lines) > 2 {
			text = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		logging.Warn().Err(err).Msg("model response is not valid JSON")
		return nil
	}

	cleaned := make(map[string]any)
	for _, field := range gaps {
		value, ok := data[field]
		if !ok || value == nil {
			continue
		}
		if validated, ok := validateField(field, value); ok {
			cleaned[field] = validated
		}
	}
	return cleaned
}

// validateField checks one value against its schema constraint.
func validateField(field string, value any) (any, bool) {
	switch field {
	case "product_type":
		return enumMember(value, validProductTypes)
	case "category":
		return enumMember(value, validCategories)
	case "status":
		return enumMember(value, validStatuses)
	case "pricing_model":
		return enumMember(value, validPricing)
	case "has_free_tier", "open_source", "api_available":
		b, ok := value.(bool)
		return b, ok
	case "description", "description_zh", "sub_category", "architecture":
		s, ok := value.(string)
		s = strings.TrimSpace(s)
		if !ok || len(s) < 2 {
			return nil, false
		}
		return s, true
	case "tags", "modalities", "platforms", "target_audience", "use_cases", "competitors":
		raw, ok := value.([]any)
		if !ok {
			return nil, false
		}
		var items []string
		for _, item := range raw {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				items = append(items, strings.TrimSpace(s))
			}
		}
		if len(items) == 0 {
			return nil, false
		}
		return items, true
	default:
		return value, true
	}
}

func enumMember(value any, valid []string) (any, bool) {
	s, ok := value.(string)
	if !ok {
		return nil, false
	}
	for _, v := range valid {
		if s == v {
			return s, true
		}
	}
	return nil, false
}

// toRecord converts validated fields into an AI-generated record the
// merger can apply under the usual tier rule.
func toRecord(doc catalog.Document, cleaned map[string]any) *sources.ScrapedRecord {
	r := &sources.ScrapedRecord{
		Name:   doc.Name(),
		Source: SourceName,
		Tier:   sources.TierAIGenerated,
	}
	for field, value := range cleaned {
		switch field {
		case "description":
			r.Description = value.(string)
		case "description_zh":
			r.DescriptionZh = value.(string)
		case "product_type":
			r.ProductType = value.(string)
		case "category":
			r.Category = value.(string)
		case "sub_category":
			r.SubCategory = value.(string)
		case "architecture":
			r.Architecture = value.(string)
		case "status":
			r.Status = value.(string)
		case "pricing_model":
			r.PricingModel = value.(string)
		case "has_free_tier":
			b := value.(bool)
			r.HasFreeTier = &b
		case "open_source":
			b := value.(bool)
			r.OpenSource = &b
		case "api_available":
			b := value.(bool)
			r.APIAvailable = &b
		case "tags":
			r.Tags = value.([]string)
		case "modalities":
			r.Modalities = value.([]string)
		case "platforms":
			r.Platforms = value.([]string)
		case "target_audience":
			r.TargetAudience = value.([]string)
		case "use_cases":
			r.UseCases = value.([]string)
		case "competitors":
			r.Competitors = value.([]string)
		}
	}
	return r
}

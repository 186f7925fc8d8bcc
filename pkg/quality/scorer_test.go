package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aidirectory/lodestar/pkg/catalog"
)

func TestScoreEmptyDocument(t *testing.T) {
	assert.Equal(t, 0.0, Score(catalog.Document{}))
}

func TestScoreWeighsFields(t *testing.T) {
	nameOnly := catalog.Document{"name": "ChatGPT"}
	richer := catalog.Document{
		"name":         "ChatGPT",
		"product_url":  "https://chat.openai.com",
		"description":  "Conversational AI assistant.",
		"product_type": "app",
		"category":     "ai-app",
		"status":       "active",
		"tags":         []any{"chat"},
		"company": map[string]any{
			"name": "OpenAI",
			"url":  "https://openai.com",
		},
	}

	low := Score(nameOnly)
	high := Score(richer)
	assert.Greater(t, low, 0.0)
	assert.Greater(t, high, low)
	assert.LessOrEqual(t, high, 1.0)

	// Core identity fields outweigh long-tail ones.
	withDescription := catalog.Document{"name": "X", "description": "A tool."}
	withKeyPeople := catalog.Document{"name": "X", "key_people": []any{map[string]any{"name": "A"}}}
	assert.Greater(t, Score(withDescription), Score(withKeyPeople))
}

func TestScoreIgnoresEmptyValues(t *testing.T) {
	doc := catalog.Document{
		"name":        "X",
		"description": "   ",
		"tags":        []any{},
	}
	assert.Equal(t, Score(catalog.Document{"name": "X"}), Score(doc))
}

func TestMissingFieldsHeaviestFirst(t *testing.T) {
	doc := catalog.Document{"name": "X", "product_url": "https://x.example.com"}
	missing := MissingFields(doc)

	assert.NotContains(t, missing, "name")
	assert.NotContains(t, missing, "product_url")
	// description carries the top remaining weight.
	assert.Equal(t, "description", missing[0])
}

func TestRescoreStampsDocument(t *testing.T) {
	doc := catalog.Document{"name": "X"}
	score := Rescore(doc)

	assert.Equal(t, score, doc.Get("meta.data_quality_score"))
	assert.NotEmpty(t, doc.StringAt("meta.last_updated"))
}

// Package pipeline is the batch entry point: it wires the deduplicator,
// cross-validator, and merger over one canonical store and processes a
// list of scraped records in input order, keeping the session indices
// current so records within the same batch see each other's writes.
package pipeline

import (
	stderrors "errors"

	"github.com/aidirectory/lodestar/pkg/catalog"
	"github.com/aidirectory/lodestar/pkg/crossval"
	"github.com/aidirectory/lodestar/pkg/dedup"
	"github.com/aidirectory/lodestar/pkg/errors"
	"github.com/aidirectory/lodestar/pkg/logging"
	"github.com/aidirectory/lodestar/pkg/merge"
	"github.com/aidirectory/lodestar/pkg/sources"
)

// Action says what happened to one record.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionSkipped Action = "skipped"
	ActionFailed  Action = "failed"
)

// Outcome is the per-record processing result.
type Outcome struct {
	Name   string
	Source string
	Slug   string
	Action Action
	Err    error
}

// Result aggregates a batch run.
type Result struct {
	Outcomes   []Outcome
	Violations []crossval.Violation
	Created    int
	Updated    int
	Skipped    int
	Failed     int
}

// Pipeline processes batches of scraped records against one store.
type Pipeline struct {
	dedup     *dedup.Deduplicator
	validator *crossval.Validator
	merger    *merge.Merger
}

// New builds a pipeline over store, seeding the dedup and validation
// indices from its current contents.
func New(store *catalog.Store, rules crossval.Rules) (*Pipeline, error) {
	deduper, err := dedup.New(store)
	if err != nil {
		return nil, err
	}
	validator, err := crossval.New(store, rules)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		dedup:     deduper,
		validator: validator,
		merger:    merge.New(store, validator),
	}, nil
}

// Run processes records in input order. Each record is normalized,
// resolved against the store, and created or merged. A record that fails
// is skipped and the batch continues; only a persistence failure aborts,
// because after it the store and the session indices disagree.
func (p *Pipeline) Run(records []sources.ScrapedRecord, limit int) (*Result, error) {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	result := &Result{Outcomes: make([]Outcome, 0, len(records))}

	for i := range records {
		record := sources.Normalize(records[i])
		outcome := p.process(&record)
		result.Outcomes = append(result.Outcomes, outcome)
		switch outcome.Action {
		case ActionCreated:
			result.Created++
		case ActionUpdated:
			result.Updated++
		case ActionSkipped:
			result.Skipped++
		case ActionFailed:
			result.Failed++
			if errors.IsPersist(outcome.Err) {
				result.Violations = p.validator.Violations()
				return result, outcome.Err
			}
		}
	}

	result.Violations = p.validator.Violations()
	logging.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("violations", len(result.Violations)).
		Msg("batch complete")
	return result, nil
}

// process handles one normalized record.
func (p *Pipeline) process(record *sources.ScrapedRecord) Outcome {
	outcome := Outcome{Name: record.Name, Source: record.Source}
	if record.Name == "" {
		outcome.Action = ActionSkipped
		outcome.Err = &errors.ValidationError{Field: "name", Message: "record has no product name"}
		return outcome
	}

	var (
		doc catalog.Document
		err error
	)
	if slug := p.dedup.Resolve(record); slug != "" {
		outcome.Slug = slug
		outcome.Action = ActionUpdated
		doc, err = p.merger.Merge(slug, record)
	} else {
		slug = catalog.Slugify(record.Name)
		outcome.Slug = slug
		outcome.Action = ActionCreated
		doc, err = p.merger.Create(slug, record)
	}
	if err != nil {
		outcome.Action = failureAction(err)
		outcome.Err = err
		logging.Err(err).Str("name", record.Name).Str("source", record.Source).
			Msg("record not merged")
		return outcome
	}

	// Keep the session indices in step with the store so the rest of
	// the batch resolves against this write.
	p.dedup.Index().RecordWrite(outcome.Slug, doc)
	return outcome
}

// failureAction maps an error to skipped (bad input, batch continues) or
// failed (store trouble).
func failureAction(err error) Action {
	var slugErr *errors.SlugError
	var valErr *errors.ValidationError
	if stderrors.As(err, &slugErr) || stderrors.As(err, &valErr) {
		return ActionSkipped
	}
	return ActionFailed
}

package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidirectory/lodestar/pkg/enrich"
	"github.com/aidirectory/lodestar/pkg/integrity"
	"github.com/aidirectory/lodestar/pkg/pipeline"
	"github.com/aidirectory/lodestar/pkg/quality"
	"github.com/aidirectory/lodestar/pkg/sources"
)

// NewMergeCommand merges a batch of scraped records into the store.
func (a *App) NewMergeCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "merge <records.json>",
		Short: "Resolve and merge a batch of scraped records",
		Long: `Reads a JSON array of scraped records, resolves each against the
canonical store (by URL domain, exact name, then fuzzy name), and merges
accepted fields under the trust-tier rule. Records that fail validation
are skipped; the batch aborts only when a document cannot be persisted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecords(args[0])
			if err != nil {
				return err
			}
			rules, err := a.rules()
			if err != nil {
				return err
			}
			pipe, err := pipeline.New(a.store(), rules)
			if err != nil {
				return err
			}
			if limit == 0 {
				limit = a.config.BatchLimit
			}
			result, runErr := pipe.Run(records, limit)
			printResult(cmd, result)
			return runErr
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "process at most N records (0 = config default)")
	return cmd
}

// NewScoreCommand recomputes quality scores.
func (a *App) NewScoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "score [slug...]",
		Short: "Recompute data quality scores",
		Long: `Recomputes the weighted completeness score for the named entities,
or for every entity in the store when no slug is given, and persists the
updated documents.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.store()
			slugs := args
			if len(slugs) == 0 {
				all, err := store.Slugs()
				if err != nil {
					return err
				}
				slugs = all
			}
			for _, slug := range slugs {
				doc, err := store.Load(slug)
				if err != nil {
					return err
				}
				score := quality.Rescore(doc)
				if err := store.Save(slug, doc); err != nil {
					return err
				}
				cmd.Printf("%s\t%.2f\n", slug, score)
			}
			return nil
		},
	}
}

// NewCheckCommand runs the cross-entity integrity check.
func (a *App) NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check cross-entity reference integrity",
		Long: `Verifies that every slug referenced from competitors, based_on, and
used_by arrays points to an existing entity. Reports problems; never
modifies the store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			errs, err := integrity.NewChecker(a.store()).CheckAll()
			if err != nil {
				return err
			}
			for _, e := range errs {
				cmd.Println(e.String())
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d broken references", len(errs))
			}
			cmd.Println("ok")
			return nil
		},
	}
}

// NewShowCommand prints one canonical document.
func (a *App) NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Print a canonical entity document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.store().Load(args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
}

// NewEnrichCommand fills classification gaps with the LLM enricher.
func (a *App) NewEnrichCommand() *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "enrich <slug>",
		Short: "Fill classification gaps with an LLM (AI tier)",
		Long: `Identifies empty classification fields on the entity, asks the model
to fill them, and merges the result at the AI-generated trust tier, so
nothing already scraped or curated is overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			store := a.store()
			doc, err := store.Load(slug)
			if err != nil {
				return err
			}
			enricher, err := enrich.New(cmd.Context(), a.config.GeminiAPIKey, model)
			if err != nil {
				return err
			}
			record, err := enricher.Enrich(cmd.Context(), doc)
			if err != nil {
				return err
			}
			if record == nil {
				cmd.Println("nothing to enrich")
				return nil
			}
			rules, err := a.rules()
			if err != nil {
				return err
			}
			pipe, err := pipeline.New(store, rules)
			if err != nil {
				return err
			}
			result, runErr := pipe.Run([]sources.ScrapedRecord{*record}, 1)
			printResult(cmd, result)
			return runErr
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "model name (default "+enrich.DefaultModel+")")
	return cmd
}

// readRecords decodes a JSON array of scraped records from a file.
func readRecords(path string) ([]sources.ScrapedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []sources.ScrapedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// printResult summarizes a batch run on the command's output.
func printResult(cmd *cobra.Command, result *pipeline.Result) {
	if result == nil {
		return
	}
	for _, o := range result.Outcomes {
		switch o.Action {
		case pipeline.ActionFailed, pipeline.ActionSkipped:
			cmd.Printf("%-8s %s (%s): %v\n", o.Action, o.Name, o.Source, o.Err)
		default:
			cmd.Printf("%-8s %s -> %s\n", o.Action, o.Name, o.Slug)
		}
	}
	cmd.Printf("created=%d updated=%d skipped=%d failed=%d violations=%d\n",
		result.Created, result.Updated, result.Skipped, result.Failed, len(result.Violations))
	for _, v := range result.Violations {
		cmd.Printf("violation [%s] %s.%s: %s\n", v.Severity, v.TargetSlug, v.Field, v.Reason)
	}
}

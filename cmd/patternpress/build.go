package main

import (
	"fmt"
	"log/slog"

	"github.com/patternpress/patternpress"
	"github.com/patternpress/patternpress/site"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	extras := make([]site.Extra, 0, len(deps.Config.Extras))
	for _, x := range deps.Config.Extras {
		category, ok := patternpress.ParseCategory(x.Category)
		if x.Category != "" && !ok {
			return patternpress.Errorf(patternpress.EINVALID, "extra %q names unknown category %q", x.Source, x.Category)
		}
		extras = append(extras, site.Extra{
			Source:      x.Source,
			Dest:        x.Dest,
			Title:       x.Title,
			Description: x.Description,
			Category:    category,
		})
	}

	emitter := &site.Emitter{
		CorpusDir: deps.Config.CorpusDir,
		OutputDir: deps.Config.OutputDir,
		IndexPath: deps.Config.IndexPath,
		Extras:    extras,
		Logger:    slog.New(slog.NewTextHandler(deps.Stderr, nil)),
	}

	result, err := emitter.Build(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", patternpress.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Emitted %d patterns to %s\n", result.Emitted, deps.Config.OutputDir)
	if result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, "Skipped %d malformed documents (see warnings above)\n", result.Skipped)
	}
	fmt.Fprintf(deps.Stdout, "Index written to %s\n", deps.Config.IndexPath)
	return nil
}

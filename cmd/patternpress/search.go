package main

import (
	"fmt"
	"strings"

	"github.com/patternpress/patternpress"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	entries, err := deps.Index.Load(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", patternpress.ErrorMessage(err))
		return err
	}

	query := strings.Join(c.Query, " ")
	ranked := patternpress.RankEntries(query, entries, c.Top)
	if len(ranked) == 0 {
		fmt.Fprintf(deps.Stdout, "No patterns matched %q.\n", query)
		return nil
	}

	for _, r := range ranked {
		fmt.Fprintf(deps.Stdout, "%3d  %s (%s)\n", r.Score, r.Entry.Title, r.Entry.CategoryLabel)
		fmt.Fprintf(deps.Stdout, "     %s\n", r.Entry.URL)
		if r.Entry.Description != "" {
			fmt.Fprintf(deps.Stdout, "     %s\n", r.Entry.Description)
		}
	}
	return nil
}

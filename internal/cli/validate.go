package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kknero/neromind/pkg/errors"
	"github.com/kknero/neromind/pkg/mapfile"
)

// validateCommand creates the validate command for checking map files.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [file.kknm...]",
		Short: "Check map files for format errors",
		Long: `Check map files for format errors.

Each file must carry the KK-NeroMind signature, a supported schema version
and an existing root node. Edges whose endpoints are missing are reported
and would be dropped on load; with --strict they fail validation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd, args, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat dropped edges as errors")
	return cmd
}

func (c *CLI) runValidate(cmd *cobra.Command, paths []string, strict bool) error {
	logger := loggerFromContext(cmd.Context())

	failed := 0
	for _, path := range paths {
		doc, warnings, err := mapfile.Import(path)
		if err != nil {
			failed++
			printError("%s: %s", path, errors.UserMessage(err))
			logger.Debug("validate failed", "file", path, "code", errors.GetCode(err))
			continue
		}

		for _, w := range warnings {
			printWarning("%s: %s", path, w)
		}
		if strict && len(warnings) > 0 {
			failed++
			printError("%s: %d dangling edges", path, len(warnings))
			continue
		}

		pinned := 0
		for _, n := range doc.Nodes {
			if n.IsPinned {
				pinned++
			}
		}
		printSuccess("%s", path)
		printStats(len(doc.Nodes), len(doc.Edges), pinned)
		logger.Debug("validated", "file", path, "schema", doc.Meta.SchemaVersion, "root", doc.RootNodeID)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(paths))
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/njfio/issuegraph/pkg/artifact"
	"github.com/njfio/issuegraph/pkg/errors"
	"github.com/njfio/issuegraph/pkg/hierarchy"
	"github.com/njfio/issuegraph/pkg/issues"
	"github.com/njfio/issuegraph/pkg/store"
)

// extractOpts holds the command-line flags for the extract command.
type extractOpts struct {
	input      string // issue data file, "-" for stdin
	repo       string // owner/name for URL synthesis
	rootIssue  int    // root issue number
	outputJSON string // graph document path
	outputMD   string // markdown outline path
	quiet      bool   // suppress the summary block
	archive    bool   // save the run to the configured archive
	configFile string // alternate config file path
}

// extractCommand creates the extract command.
func (c *CLI) extractCommand() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the issue hierarchy graph from exported issue data",
		Long: `Extract reads exported issue records (a JSON array), normalizes them into
canonical issue nodes, classifies every node against the root issue's parent
hierarchy, and writes two artifacts: a graph document (JSON) and a markdown
outline. Output is deterministic: the same input produces byte-identical
artifacts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configFile)
			if err != nil {
				return err
			}
			applyConfigDefaults(&opts, cfg)

			if opts.rootIssue == 0 {
				return errors.New(errors.ErrCodeConfiguration, "a root issue number is required (--root-issue or config)")
			}
			return c.runExtract(cmd.Context(), cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "issue data file (JSON array), or '-' for stdin")
	cmd.Flags().StringVar(&opts.repo, "repo", "", "repository as owner/name, used to synthesize issue URLs")
	cmd.Flags().IntVarP(&opts.rootIssue, "root-issue", "r", 0, "root issue number of the hierarchy")
	cmd.Flags().StringVar(&opts.outputJSON, "output-json", "", "graph document output path")
	cmd.Flags().StringVar(&opts.outputMD, "output-md", "", "markdown outline output path")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress the summary block")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "save this run to the configured archive")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "config file path")

	return cmd
}

// applyConfigDefaults fills unset flags from the config file.
func applyConfigDefaults(opts *extractOpts, cfg *Config) {
	if opts.repo == "" {
		opts.repo = cfg.Repo
	}
	if opts.rootIssue == 0 {
		opts.rootIssue = cfg.RootIssue
	}
	if opts.outputJSON == "" {
		opts.outputJSON = cfg.Output.JSON
	}
	if opts.outputMD == "" {
		opts.outputMD = cfg.Output.Markdown
	}
}

// runExtract executes the extraction pipeline. Both artifacts are built in
// memory before either file is written, so a fatal error produces no
// partial output.
func (c *CLI) runExtract(ctx context.Context, cfg *Config, opts *extractOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	records, err := readRecords(opts.input)
	if err != nil {
		return err
	}
	logger.Debugf("Decoded %d raw records", len(records))

	nodes := issues.Normalize(records, issues.Options{Repo: opts.repo})
	logger.Debugf("Normalized %d issue nodes", len(nodes))

	g, err := hierarchy.Build(issues.NodeMap(nodes), opts.rootIssue)
	if err != nil {
		return err
	}

	doc := g.Document()
	outline := hierarchy.RenderOutline(doc)

	if err := artifact.WriteJSON(opts.outputJSON, doc); err != nil {
		return fmt.Errorf("write graph document: %w", err)
	}
	if err := artifact.WriteFile(opts.outputMD, []byte(outline)); err != nil {
		return fmt.Errorf("write outline: %w", err)
	}

	if opts.archive {
		if err := c.archiveRun(ctx, cfg, opts, doc); err != nil {
			// The artifacts are already written; an archive failure
			// degrades to a warning.
			printWarning("archive failed: %v", err)
		}
	}

	prog.done(fmt.Sprintf("Classified %d issues against #%d", len(nodes), opts.rootIssue))

	if !opts.quiet {
		printSuccess("Extracted hierarchy for issue #%d", opts.rootIssue)
		printFile(opts.outputJSON)
		printFile(opts.outputMD)
		printStats(doc.Summary.InScopeNodes, doc.Summary.InScopeEdges, doc.Summary.OrphanNodes, false)
		if doc.Summary.MissingLinks > 0 {
			printDetail("%d issues have missing parent links", doc.Summary.MissingLinks)
		}
	}
	return nil
}

// archiveRun saves the extraction to the configured MongoDB archive.
func (c *CLI) archiveRun(ctx context.Context, cfg *Config, opts *extractOpts, doc *hierarchy.Document) error {
	if cfg.Archive.URI == "" {
		return fmt.Errorf("no archive URI configured")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	archive, err := store.NewMongoArchive(connectCtx, cfg.Archive.URI)
	if err != nil {
		return err
	}
	defer func() { _ = archive.Close(ctx) }()

	return archive.Save(ctx, &store.Run{
		Repo:        opts.repo,
		RootIssue:   opts.rootIssue,
		ExtractedAt: time.Now().UTC(),
		Document:    doc,
	})
}

// readRecords reads raw issue records from a file or stdin.
func readRecords(input string) ([]issues.RawRecord, error) {
	if input == "-" {
		return issues.DecodeRecords(os.Stdin)
	}
	return issues.ReadRecordsFile(input)
}

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njfio/issuegraph/pkg/artifact"
	"github.com/njfio/issuegraph/pkg/cache"
	"github.com/njfio/issuegraph/pkg/hierarchy"
	"github.com/njfio/issuegraph/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output         string // output file path
	format         string // "dot" or "svg"
	detailed       bool   // include state, type, and depth in node labels
	includeOrphans bool   // render orphan nodes as disconnected boxes
	noCache        bool   // bypass the artifact cache
	configFile     string // alternate config file path
}

// renderCommand creates the render command for generating diagrams from an
// extracted graph document.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render an extracted hierarchy graph to DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatDOT && opts.format != formatSVG {
				return fmt.Errorf("invalid format: %s (must be %q or %q)", opts.format, formatDOT, formatSVG)
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input path with the format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include state, type, and depth in node labels")
	cmd.Flags().BoolVar(&opts.includeOrphans, "include-orphans", false, "render orphan nodes as disconnected boxes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "config file path")

	return cmd
}

// runRender loads the graph document and renders it to the requested format.
// SVG renders are cached by document content hash.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	doc, err := hierarchy.ReadDocumentFile(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded graph: %d nodes, %d edges", doc.Summary.InScopeNodes, doc.Summary.InScopeEdges)

	renderOptions := render.Options{
		Detailed:       opts.detailed,
		IncludeOrphans: opts.includeOrphans,
	}
	dot := render.ToDOT(doc, renderOptions)

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.format
	}

	if opts.format == formatDOT {
		if err := artifact.WriteFile(output, []byte(dot)); err != nil {
			return err
		}
		printSuccess("Rendered DOT diagram")
		printFile(output)
		return nil
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}
	artifactCache, err := newCache(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer func() { _ = artifactCache.Close() }()

	svg, cached, err := c.renderSVG(ctx, artifactCache, doc, dot, renderOptions)
	if err != nil {
		return err
	}
	if err := artifact.WriteFile(output, svg); err != nil {
		return err
	}

	printSuccess("Rendered SVG diagram")
	printFile(output)
	printStats(doc.Summary.InScopeNodes, doc.Summary.InScopeEdges, doc.Summary.OrphanNodes, cached)
	return nil
}

// renderSVG renders the DOT graph to SVG, using the artifact cache when
// the document and options match a previous render.
func (c *CLI) renderSVG(ctx context.Context, artifactCache cache.Cache, doc *hierarchy.Document, dot string, opts render.Options) ([]byte, bool, error) {
	data, err := doc.Marshal()
	if err != nil {
		return nil, false, err
	}
	key := cache.ArtifactKey(cache.Hash(data), cache.ArtifactKeyOpts{
		Format:         formatSVG,
		Detailed:       opts.Detailed,
		IncludeOrphans: opts.IncludeOrphans,
	})

	if svg, hit, err := artifactCache.Get(ctx, key); err == nil && hit {
		return svg, true, nil
	}

	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()
	svg, err := render.RenderSVG(ctx, dot)
	spinner.Stop()
	if err != nil {
		if spinner.Cancelled() {
			return nil, false, ctx.Err()
		}
		return nil, false, fmt.Errorf("render svg: %w", err)
	}

	_ = artifactCache.Set(ctx, key, svg, cache.TTLArtifact)
	return svg, false, nil
}

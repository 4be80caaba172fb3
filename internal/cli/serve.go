package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njfio/issuegraph/internal/server"
)

// serveCommand creates the serve command for exposing extracted artifacts
// over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		graphPath  string
		noCache    bool
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extracted hierarchy graph over HTTP",
		Long: `Serve exposes the graph document, markdown outline, and rendered SVG
over HTTP. The document is re-read per request, so re-running extract is
picked up without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if graphPath == "" {
				graphPath = cfg.Output.JSON
			}

			artifactCache, err := newCache(cmd.Context(), cfg, noCache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer func() { _ = artifactCache.Close() }()

			srv := server.New(server.Config{
				DocumentPath: graphPath,
				Cache:        artifactCache,
				Logger:       c.Logger,
			})

			printInfo("Serving %s on %s", graphPath, addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&graphPath, "graph", "", "graph document to serve (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path")

	return cmd
}

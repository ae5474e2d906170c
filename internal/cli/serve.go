package cli

import (
	"github.com/spf13/cobra"

	"github.com/rgallet/mandagen/internal/api"
)

// serveCommand creates the serve command exposing generation over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		Long: `Serve the generation API over HTTP.

POST a JSON config to /api/v1/generate to receive the assembled PDF.
Rendering happens fully in memory; the server writes no files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return api.NewServer(loggerFromContext(cmd.Context())).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

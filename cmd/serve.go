package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/layera/stylegen/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Serve the live style guide",
		Long: `Serve a style guide of every builder together with the compiled
stylesheets:

  GET /                 style guide
  GET /css/<name>.css   one builder
  GET /css/all.css      every builder
  GET /healthz          health check
  GET /ws               live reload

Open pages reload automatically when a builder document changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}

			srv := server.New(a.cfg.Server, c, a.logger)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.ListenAndServe(ctx) })
			if !noWatch && len(a.cfg.Sources.Dirs) > 0 {
				g.Go(func() error { return a.watchSources(ctx, a.reloadCatalog(srv.Reload)) })
			}
			return g.Wait()
		},
	}

	cmd.Flags().IntP("port", "p", 0, "port to serve on (default from server.port)")
	cmd.Flags().String("host", "", "host to bind to (default from server.host)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when builder documents change")
	a.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	a.v.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	return cmd
}

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/layera/stylegen/internal/catalog"
	stylerr "github.com/layera/stylegen/internal/errors"
	"github.com/layera/stylegen/internal/generator"
	"github.com/layera/stylegen/internal/watcher"
)

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Aliases: []string{"w"},
		Short:   "Rebuild whenever a builder document changes",
		Long: `Build once, then watch the source directories and rebuild every time a
builder document is created, changed or removed. A document that fails to
parse is reported and the previous output is left in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gen := generator.New(a.logger)
			opts := generator.Options{
				OutputDir:     a.cfg.Output.Dir,
				Builders:      a.cfg.Output.Builders,
				Aggregate:     a.cfg.Output.Aggregate,
				AggregateFile: a.cfg.Output.AggregateFile,
			}

			rebuild := func(ctx context.Context) error {
				c, err := a.loadCatalog()
				if err != nil {
					return err
				}
				result, err := gen.Generate(ctx, c, opts)
				if err != nil {
					return err
				}
				a.logger.Info(ctx, "Stylesheets rebuilt", "files", len(result.Files), "valid", result.Valid())
				return nil
			}

			if err := rebuild(ctx); err != nil {
				return err
			}

			return a.watchSources(ctx, func(ctx context.Context, events []watcher.ChangeEvent) error {
				a.logger.Info(ctx, "Builder documents changed", "paths", watcher.Paths(events))
				return rebuild(ctx)
			})
		},
	}
}

// watchSources blocks until ctx is done, calling onChange with each
// debounced batch of builder document changes.
func (a *app) watchSources(ctx context.Context, onChange watcher.ChangeHandler) error {
	if len(a.cfg.Sources.Dirs) == 0 {
		return stylerr.NewConfigError(stylerr.ErrCodeConfigInvalid,
			"nothing to watch: add project directories under sources.dirs")
	}

	fw, err := watcher.NewFileWatcher(a.cfg.Watch.Debounce, a.logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	fw.AddFilter(watcher.DocumentFilter)
	fw.AddFilter(watcher.NoEditorTempFilter)
	fw.AddFilter(watcher.NoGitFilter)
	fw.AddHandler(onChange)

	for _, dir := range a.cfg.Sources.Dirs {
		if err := fw.AddRecursive(dir); err != nil {
			return err
		}
	}
	if err := fw.Start(ctx); err != nil {
		return err
	}

	a.logger.Info(ctx, "Watching builder documents", "dirs", a.cfg.Sources.Dirs)
	<-ctx.Done()
	return nil
}

// reloadCatalog is the change handler used by serve.
func (a *app) reloadCatalog(apply func(*catalog.Catalog)) watcher.ChangeHandler {
	return func(ctx context.Context, events []watcher.ChangeEvent) error {
		c, err := a.loadCatalog()
		if err != nil {
			return err
		}
		apply(c)
		return nil
	}
}

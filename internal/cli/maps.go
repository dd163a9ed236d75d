package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kknero/neromind/pkg/mapfile"
	"github.com/kknero/neromind/pkg/mapstore"
)

const (
	backendFile  = "file"
	backendRedis = "redis"
)

// storeOpts selects and configures the map store backend.
type storeOpts struct {
	backend       string
	dir           string
	redisAddr     string
	redisPassword string
	redisDB       int
	redisPrefix   string
}

// mapsCommand creates the maps command group for managing stored maps.
func (c *CLI) mapsCommand() *cobra.Command {
	var opts storeOpts

	cmd := &cobra.Command{
		Use:   "maps",
		Short: "Manage maps in a map store",
		Long: `Manage maps in a map store.

Maps are kept either as .kknm files in a directory (default:
$XDG_DATA_HOME/neromind/maps) or in Redis.`,
	}

	cmd.PersistentFlags().StringVar(&opts.backend, "backend", backendFile, "store backend: file, redis")
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "map directory for the file backend")
	cmd.PersistentFlags().StringVar(&opts.redisAddr, "redis-addr", "localhost:6379", "Redis address")
	cmd.PersistentFlags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.PersistentFlags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database")
	cmd.PersistentFlags().StringVar(&opts.redisPrefix, "redis-prefix", mapstore.DefaultRedisPrefix, "Redis key prefix")

	cmd.AddCommand(c.mapsListCommand(&opts))
	cmd.AddCommand(c.mapsImportCommand(&opts))
	cmd.AddCommand(c.mapsExportCommand(&opts))
	cmd.AddCommand(c.mapsDeleteCommand(&opts))

	return cmd
}

// openStore creates the configured backend.
func (c *CLI) openStore(ctx context.Context, opts *storeOpts) (mapstore.Store, error) {
	logger := loggerFromContext(ctx)
	switch opts.backend {
	case backendFile:
		return mapstore.NewFileStore(opts.dir, mapstore.WithFileLogger(logger))
	case backendRedis:
		return mapstore.NewRedisStore(opts.redisAddr, opts.redisPassword, opts.redisDB,
			mapstore.WithPrefix(opts.redisPrefix),
			mapstore.WithRedisLogger(logger),
		), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want file or redis)", opts.backend)
	}
}

// withStore opens the store, runs fn and closes the store.
func (c *CLI) withStore(ctx context.Context, opts *storeOpts, fn func(mapstore.Store) error) error {
	store, err := c.openStore(ctx, opts)
	if err != nil {
		return fmt.Errorf("open %s store: %w", opts.backend, err)
	}
	defer store.Close()
	return fn(store)
}

func (c *CLI) mapsListCommand(opts *storeOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), opts, func(store mapstore.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					printInfo("No maps stored")
					return nil
				}
				for _, e := range entries {
					printKeyValue(e.Name, e.UpdatedAt.Local().Format(time.DateTime))
				}
				return nil
			})
		},
	}
}

func (c *CLI) mapsImportCommand(opts *storeOpts) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import [file.kknm]",
		Short: "Store a map file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			doc, warnings, err := mapfile.Import(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			for _, w := range warnings {
				logger.Warn("dropped edge", "file", args[0], "detail", w.String())
			}
			if name == "" {
				name = mapName(args[0])
			}

			return c.withStore(ctx, opts, func(store mapstore.Store) error {
				if err := store.Put(ctx, name, doc); err != nil {
					return err
				}
				printSuccess("Stored %s", name)
				printStats(len(doc.Nodes), len(doc.Edges), 0)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "map name (default: file name without extension)")
	return cmd
}

func (c *CLI) mapsExportCommand(opts *storeOpts) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [name]",
		Short: "Write a stored map to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, opts, func(store mapstore.Store) error {
				doc, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				path := output
				if path == "" {
					path = args[0] + mapfile.Extension
				}
				if err := mapfile.Export(doc, path); err != nil {
					return err
				}
				printSuccess("Exported %s", args[0])
				printFile(path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.kknm)")
	return cmd
}

func (c *CLI) mapsDeleteCommand(opts *storeOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Remove a stored map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, opts, func(store mapstore.Store) error {
				if err := store.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}

// mapName derives a store name from a file path.
func mapName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// Package cli implements the typebind command line interface, one file
// per subcommand.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/typebind-dev/typebind/bindstore"
	"github.com/typebind-dev/typebind/catalog"
	"github.com/typebind-dev/typebind/handler"
	"github.com/typebind-dev/typebind/internal/config"
	"github.com/typebind-dev/typebind/typegraph"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	rootVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "typebind",
	Short: "Inspect and change default application handlers",
	Long: `typebind resolves and changes which installed application opens a given
content type, file extension, or URL scheme, and lists every application
that declares itself capable of doing so.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if rootVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// newEngine builds the handler engine from the configured adapters.
// The catalog store doubles as app catalog and bundle reader.
func newEngine(ctx context.Context) (*handler.Service, error) {
	roots := viper.GetStringSlice(config.KeyCatalogRoots)
	store := catalog.NewStore(roots, catalog.WithLogger(slog.Default()))

	source := viper.GetString(config.KeyTypeDatabase)
	var (
		graph *typegraph.Graph
		err   error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		graph, err = typegraph.Fetch(ctx, source)
	} else {
		graph, err = typegraph.LoadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("loading type database %s: %w", source, err)
	}

	binds := bindstore.NewFileStore(bindstore.WithPath(viper.GetString(config.KeyBindingsPath)))

	return handler.NewService(store, store, graph, binds, handler.WithLogger(slog.Default())), nil
}

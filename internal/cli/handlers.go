package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/typebind-dev/typebind/handler"
	"github.com/typebind-dev/typebind/handler/entities"
)

var (
	handlersScheme   bool
	handlersOpenable bool
	handlersJSON     bool
)

var handlersCmd = &cobra.Command{
	Use:   "handlers <type|scheme>",
	Short: "List every application capable of handling a type or scheme",
	Long: `List all candidate handlers, deduplicated by application path and ordered
by declared rank, then name, then path. The first entry is the best
candidate and matches the inferred default when no explicit binding exists.`,
	Args: cobra.ExactArgs(1),
	RunE: runHandlers,
}

func init() {
	handlersCmd.Flags().BoolVar(&handlersScheme, "scheme", false, "Treat the argument as a URL scheme")
	handlersCmd.Flags().BoolVar(&handlersOpenable, "openable", false, "Only applications that open the content (exclude Shell/None roles)")
	handlersCmd.Flags().BoolVar(&handlersJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(handlersCmd)
}

func runHandlers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := newEngine(ctx)
	if err != nil {
		return err
	}

	var opts []handler.ListOption
	if handlersOpenable {
		opts = append(opts, handler.WithOpenableOnly())
	}

	var apps []entities.Descriptor
	if handlersScheme {
		apps, err = svc.ListHandlersByScheme(ctx, args[0], opts...)
	} else {
		apps, err = svc.ListHandlersByType(ctx, args[0], opts...)
	}
	if err != nil {
		return err
	}

	if len(apps) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No handlers declared for %s\n", args[0])
		return nil
	}

	if handlersJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(apps)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBUNDLE ID\tPATH")
	for _, app := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\n", app.Name, app.BundleID, app.Path)
	}
	return w.Flush()
}

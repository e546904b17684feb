package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Translate between file extensions and type identifiers",
}

var typesForExtCmd = &cobra.Command{
	Use:   "for-extension <ext>",
	Short: "List the type identifiers an extension resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newEngine(ctx)
		if err != nil {
			return err
		}
		types, err := svc.TypesForExtension(ctx, args[0])
		if err != nil {
			return err
		}
		if len(types) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Extension %q maps to no known type\n", args[0])
			return nil
		}
		for _, t := range types {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	},
}

var typesExtensionsCmd = &cobra.Command{
	Use:   "extensions <type>",
	Short: "List the file extensions a type identifier declares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newEngine(ctx)
		if err != nil {
			return err
		}
		exts, err := svc.ExtensionsForType(ctx, args[0])
		if err != nil {
			return err
		}
		if len(exts) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Type %q declares no extensions\n", args[0])
			return nil
		}
		for _, e := range exts {
			fmt.Fprintln(cmd.OutOrStdout(), e)
		}
		return nil
	},
}

func init() {
	typesCmd.AddCommand(typesForExtCmd)
	typesCmd.AddCommand(typesExtensionsCmd)
	rootCmd.AddCommand(typesCmd)
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/typebind-dev/typebind/guard"
	"github.com/typebind-dev/typebind/handler"
	"github.com/typebind-dev/typebind/handler/entities"
	"github.com/typebind-dev/typebind/internal/config"
)

var (
	defaultGetScheme bool
	defaultGetExt    bool
	defaultSetScheme bool
	defaultSetYes    bool
)

var defaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Resolve or change the default handler",
}

var defaultGetCmd = &cobra.Command{
	Use:   "get <type|scheme|extension>",
	Short: "Show the default handler for a type, scheme, or extension",
	Args:  cobra.ExactArgs(1),
	RunE:  runDefaultGet,
}

var defaultSetCmd = &cobra.Command{
	Use:   "set <app-path> <type|scheme>",
	Short: "Make an application the default handler",
	Args:  cobra.ExactArgs(2),
	RunE:  runDefaultSet,
}

func init() {
	defaultGetCmd.Flags().BoolVar(&defaultGetScheme, "scheme", false, "Treat the argument as a URL scheme")
	defaultGetCmd.Flags().BoolVar(&defaultGetExt, "ext", false, "Treat the argument as a file extension")
	defaultSetCmd.Flags().BoolVar(&defaultSetScheme, "scheme", false, "Treat the target as a URL scheme")
	defaultSetCmd.Flags().BoolVarP(&defaultSetYes, "yes", "y", false, "Skip the confirmation prompt")
	defaultCmd.AddCommand(defaultGetCmd)
	defaultCmd.AddCommand(defaultSetCmd)
	rootCmd.AddCommand(defaultCmd)
}

func runDefaultGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := newEngine(ctx)
	if err != nil {
		return err
	}

	target := args[0]
	if defaultGetExt {
		return resolveForExtension(ctx, cmd, svc, target)
	}

	var sel entities.Selection
	if defaultGetScheme {
		sel, err = svc.ResolveDefaultByScheme(ctx, target)
	} else {
		sel, err = svc.ResolveDefaultByType(ctx, target)
	}
	if err != nil {
		return err
	}
	printSelection(cmd, target, sel.App.Name, sel.App.Path, sel.Explicit)
	return nil
}

func runDefaultSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := newEngine(ctx)
	if err != nil {
		return err
	}

	appPath, target := args[0], args[1]

	kind := "type"
	if defaultSetScheme {
		kind = "scheme"
	}

	level := guard.SecurityLevel(viper.GetString(config.KeySecurityLevel))
	if defaultSetYes {
		level = guard.SecurityPermissive
	}
	g := guard.New(guard.WithSecurityLevel(level))
	if err := g.Approve(guard.Change{Kind: kind, Target: target, AppPath: appPath}); err != nil {
		return err
	}

	if defaultSetScheme {
		err = svc.SetDefaultByScheme(ctx, appPath, target)
	} else {
		err = svc.SetDefaultByType(ctx, appPath, target)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Default handler for %s %s is now %s\n", kind, target, appPath)
	return nil
}

// resolveForExtension first maps the extension to its type identifiers.
// An extension resolving to more than one identifier is ambiguous; the
// engine never guesses, so neither does the CLI.
func resolveForExtension(ctx context.Context, cmd *cobra.Command, svc *handler.Service, ext string) error {
	types, err := svc.TypesForExtension(ctx, ext)
	if err != nil {
		return err
	}
	switch len(types) {
	case 0:
		return fmt.Errorf("extension %q maps to no known type", ext)
	case 1:
		sel, err := svc.ResolveDefaultByType(ctx, types[0].String())
		if err != nil {
			return err
		}
		printSelection(cmd, types[0].String(), sel.App.Name, sel.App.Path, sel.Explicit)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Extension %q is ambiguous; pick one of:\n", ext)
	for _, t := range types {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", t)
	}
	return fmt.Errorf("ambiguous extension %q", ext)
}

func printSelection(cmd *cobra.Command, target, name, path string, explicit bool) {
	origin := "inferred from declared handlers"
	if explicit {
		origin = "explicit binding"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s, %s)\n", target, name, path, origin)
}

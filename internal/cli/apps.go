package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var appsJSON bool

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List every installed application",
	RunE:  runApps,
}

var appsDeclarationsCmd = &cobra.Command{
	Use:   "declarations <app-path>",
	Short: "Show the document types and URL schemes an application declares",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppsDeclarations,
}

func init() {
	appsCmd.Flags().BoolVar(&appsJSON, "json", false, "Output in JSON format")
	appsCmd.AddCommand(appsDeclarationsCmd)
	rootCmd.AddCommand(appsCmd)
}

func runApps(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := newEngine(ctx)
	if err != nil {
		return err
	}

	apps, err := svc.ListApplications(ctx)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No applications found.")
		return nil
	}

	if appsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(apps)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tBUNDLE ID\tPATH")
	for _, app := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", app.Name, app.Version, app.BundleID, app.Path)
	}
	return w.Flush()
}

func runAppsDeclarations(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := newEngine(ctx)
	if err != nil {
		return err
	}

	decls, err := svc.DeclarationsFor(ctx, args[0])
	if err != nil {
		return err
	}
	schemes, err := svc.SchemeDeclarationsFor(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(decls) == 0 && len(schemes) == 0 {
		fmt.Fprintln(out, "No declarations.")
		return nil
	}

	for _, d := range decls {
		rank := d.Rank.String()
		if rank == "" {
			rank = "(unspecified)"
		}
		fmt.Fprintf(out, "%s\n  role: %s  rank: %s  package: %v\n", d.TypeName, d.Role, rank, d.IsPackage)
		for _, t := range d.Types {
			fmt.Fprintf(out, "  type: %s\n", t)
		}
		for _, e := range d.Extensions {
			fmt.Fprintf(out, "  ext: .%s\n", e)
		}
	}
	for _, sd := range schemes {
		fmt.Fprintf(out, "%s\n", sd.Name)
		for _, s := range sd.Schemes {
			fmt.Fprintf(out, "  scheme: %s\n", s)
		}
	}
	return nil
}

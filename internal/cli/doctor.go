package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/typebind-dev/typebind/catalog"
	"github.com/typebind-dev/typebind/handler/entities"
	"github.com/typebind-dev/typebind/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the handler configuration",
	Long: `Check the installed-application catalog and the bindings file for
problems: duplicate installs of the same application and bindings that
point at applications that are gone or no longer capable.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := newEngine(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	apps, err := svc.ListApplications(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Catalog: %d applications under %v\n", len(apps), viper.GetStringSlice(config.KeyCatalogRoots))

	problems := 0

	dupes := catalog.Duplicates(apps)
	for bundleID, group := range dupes {
		problems++
		newest := catalog.NewestByBundleID(group)
		fmt.Fprintf(out, "Duplicate install of %s (%d copies, newest %s):\n", bundleID, len(group), newest[0].Version)
		for _, app := range group {
			fmt.Fprintf(out, "  %s (%s)\n", app.Path, app.Version)
		}
	}

	// Every type declared by an installed app has at least one candidate,
	// so a NotFound here means the registry binding is stale.
	checked := make(map[string]bool)
	for _, app := range apps {
		decls, err := svc.DeclarationsFor(ctx, app.Path)
		if err != nil {
			continue
		}
		for _, d := range decls {
			for _, t := range d.Types {
				if checked[t.Fold()] {
					continue
				}
				checked[t.Fold()] = true
				if _, err := svc.ResolveDefaultByType(ctx, t.String()); errors.Is(err, entities.ErrNotFound) {
					problems++
					fmt.Fprintf(out, "Stale binding for %s: bound application is missing or not capable\n", t)
				}
			}
		}
	}

	if problems == 0 {
		fmt.Fprintln(out, "No problems found.")
	} else {
		fmt.Fprintf(out, "%d problem(s) found.\n", problems)
	}
	return nil
}

package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/navtool/chartload/catalog"
)

// CatalogCmd groups catalog inspection subcommands.
var CatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the chart catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List charts known to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("catalog")
		if path == "" {
			path = cfg.Catalog.Path
		}
		cat, err := catalog.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}

		rows := pterm.TableData{{"Chart", "Title", "Digest", "Size"}}
		for _, id := range cat.IDs() {
			entry, err := cat.Get(id)
			if err != nil {
				continue
			}
			rows = append(rows, []string{
				id,
				entry.Title,
				shortDigest(entry.Digest),
				fmt.Sprintf("%d", entry.SizeBytes),
			})
		}

		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}
		pterm.Printf("%d charts in %s\n", cat.Len(), cat.Path())
		return nil
	},
}

var catalogWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the catalog file and report reloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("catalog")
		if path == "" {
			path = cfg.Catalog.Path
		}
		cat, err := catalog.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}

		watcher, err := catalog.NewWatcher(cat)
		if err != nil {
			return fmt.Errorf("failed to create catalog watcher: %w", err)
		}
		watcher.OnReload(func(c *catalog.Catalog) {
			pterm.Info.Printf("Catalog reloaded: %d charts\n", c.Len())
		})
		watcher.Start()
		defer watcher.Stop()

		pterm.Info.Printf("Watching %s (%d charts), Ctrl+C to stop\n", cat.Path(), cat.Len())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		<-ctx.Done()
		return nil
	},
}

func init() {
	catalogListCmd.Flags().String("catalog", "", "Catalog path override")
	catalogWatchCmd.Flags().String("catalog", "", "Catalog path override")
	CatalogCmd.AddCommand(catalogListCmd)
	CatalogCmd.AddCommand(catalogWatchCmd)
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	if digest == "" {
		return "-"
	}
	return digest
}

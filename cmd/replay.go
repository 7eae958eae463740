package cmd

import (
	"context"
	"fmt"
	"io"

	"section-mirror/core/config"
	"section-mirror/core/database"
	"section-mirror/core/logger"
	"section-mirror/feature/inventory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	replaySeed     string
	replayStore    string
	replayInMemory bool
)

// replayCmd applies a mutation script to the store and prints what the mirror saw.
var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Apply a mutation script and print the mirror's notifications",
	Long: `Replay builds the mirror of a store, applies the steps of a YAML script
one batch at a time and prints every section and item notification observed.

Examples:
  # Replay against a throwaway in-memory store seeded from a file
  replay script.yaml --in-memory --seed seed.json

  # Replay against the configured database
  replay script.yaml --store 2AB5041B-EF80-4910-8105-EC06B978C5DE`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replaySeed, "seed", "", "Seed document applied before the script (overrides inventory.seed_path)")
	replayCmd.Flags().StringVar(&replayStore, "store", "", "Store uuid to mirror (overrides inventory.store_uuid)")
	replayCmd.Flags().BoolVar(&replayInMemory, "in-memory", false, "Use a throwaway in-memory sqlite database")
	RootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if replaySeed != "" {
		cfg.Inventory.SeedPath = replaySeed
		cfg.Inventory.SeedObject = ""
	}
	if replayStore != "" {
		cfg.Inventory.StoreUUID = replayStore
	}
	if replayInMemory {
		cfg.Database = database.Config{Driver: database.DriverSQLite, Name: ":memory:"}
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	script, err := inventory.LoadScript(args[0])
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	storeUUID, err := inventory.Prepare(ctx, db, cfg.Inventory, nil, "", l)
	if err != nil {
		return fmt.Errorf("failed to prepare inventory: %w", err)
	}
	svc, err := inventory.NewService(ctx, inventory.NewRepository(db), storeUUID, nil, "", cfg.Inventory, l)
	if err != nil {
		return fmt.Errorf("failed to build mirror: %w", err)
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	printSections(out, "before", svc.Sections())

	l.Info("Replaying script", zap.String("script", args[0]), zap.Int("steps", len(script.Steps)))
	runErr := script.Run(ctx, svc)

	printJournal(out, svc.Journal(0))
	printSections(out, "after", svc.Sections())
	if runErr != nil {
		return runErr
	}
	l.Info("Replay finished", zap.Int("steps", len(script.Steps)))
	return nil
}

func printSections(w io.Writer, label string, views []inventory.SectionView) {
	fmt.Fprintf(w, "== %s ==\n", label)
	for i, v := range views {
		fmt.Fprintf(w, "[%d] %s\n", i, v.Name)
		for j, item := range v.Items {
			fmt.Fprintf(w, "    [%d,%d] %s (%d)\n", i, j, item.Name, item.Count)
		}
	}
}

func printJournal(w io.Writer, entries []inventory.Entry) {
	fmt.Fprintln(w, "== notifications ==")
	for _, e := range entries {
		if e.Level == "section" {
			fmt.Fprintf(w, "#%d section %s %s at %d\n", e.Seq, e.Kind, e.Section, e.Index)
			continue
		}
		fmt.Fprintf(w, "#%d item %s %s at %s/%d\n", e.Seq, e.Kind, e.Name, e.Section, e.Index)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/chronica/internal/config"
	"github.com/talgya/chronica/internal/engine"
	"github.com/talgya/chronica/internal/persistence"
)

var (
	runConfigPath string
	runDBPath     string
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a world to completion and archive the result",
		RunE:  runWorld,
	}
	cmd.Flags().StringVar(&runConfigPath, "config", "world.yaml", "World configuration file")
	cmd.Flags().StringVar(&runDBPath, "db", "chronica.db", "Run archive database path")
	return cmd
}

func runWorld(cmd *cobra.Command, args []string) error {
	world, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}

	cfg, seeds, err := world.Build()
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg, seeds)
	if err != nil {
		return err
	}

	eng.Run()
	snap := eng.Snapshot()

	db, err := persistence.Open(runDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.SaveRun(cfg.Seed, snap)
	if err != nil {
		return fmt.Errorf("archive run: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Run complete (archived as %s).\n", runID)
	fmt.Fprintf(os.Stdout, "  Epochs:        %d\n", snap.Meta.Epoch)
	fmt.Fprintf(os.Stdout, "  Ticks:         %s\n", humanize.Comma(int64(snap.Meta.Tick)))
	fmt.Fprintf(os.Stdout, "  Entities:      %s\n", humanize.Comma(int64(snap.Meta.EntityCount)))
	fmt.Fprintf(os.Stdout, "  Relationships: %s\n", humanize.Comma(int64(snap.Meta.RelationshipCount)))
	fmt.Fprintf(os.Stdout, "  Final era:     %s\n", snap.Meta.Era)
	return nil
}

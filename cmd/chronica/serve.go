package main

import (
	"github.com/spf13/cobra"

	"github.com/talgya/chronica/internal/api"
	"github.com/talgya/chronica/internal/persistence"
)

var (
	serveDBPath string
	servePort   int
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve archived run snapshots over HTTP",
		RunE:  serveArchive,
	}
	cmd.Flags().StringVar(&serveDBPath, "db", "chronica.db", "Run archive database path")
	cmd.Flags().IntVar(&servePort, "port", 8080, "Listen port")
	return cmd
}

func serveArchive(cmd *cobra.Command, args []string) error {
	db, err := persistence.Open(serveDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	server := &api.Server{DB: db, Port: servePort}
	return server.ListenAndServe()
}

package main

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/iahmedov/supercluster/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tiles and cluster queries over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadIndex()
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		log.Printf("serving %s on %s", inputPath, addr)
		return http.ListenAndServe(addr, server.New(index))
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to the configured server.addr)")
}

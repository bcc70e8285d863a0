package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ontomirror/dbsan/internal/connections"
	"github.com/ontomirror/dbsan/internal/mapping"
	"github.com/ontomirror/dbsan/internal/ontology"
	"github.com/ontomirror/dbsan/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload/connection/search HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}

		store, err := connections.NewStore(cfg.ConnectionsPath)
		if err != nil {
			return err
		}
		index := ontology.NewIndex(nil)
		if cfg.OntologyPath != "" {
			if err := index.LoadFile(cfg.OntologyPath); err != nil {
				return err
			}
		}

		log := logrus.StandardLogger()
		srv := server.New(store, index, mapping.NewClient(nil), log)
		log.WithField("addr", addr).Info("listening")
		return srv.Router().Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

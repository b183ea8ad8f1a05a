package cli

import (
	"github.com/spf13/cobra"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/server"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from SERVE_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve combined datasets and predictions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, store := setup()

		addr := serveAddr
		if addr == "" {
			addr = cfg.ServeAddr
		}
		return server.New(cfg, logger, store).ListenAndServe(addr)
	},
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/newsguard/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web client",
	Long: `Serves the scan form on --listen-addr together with /api/cache,
/healthz and Prometheus metrics on /metrics. Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}

		a, err := newApp(cfg, cmd.ErrOrStderr(), true)
		if err != nil {
			return err
		}

		srv, err := web.NewServer(a.scanner, a.cache, a.metrics.Handler(), a.logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.ListenAndServe(ctx, cfg.ListenAddr())
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen-addr", "", "address the web client listens on (default :8080)")
}

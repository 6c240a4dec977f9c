package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rohmanhakim/newsguard/internal/render"
)

var scanCmd = &cobra.Command{
	Use:   "scan <url>...",
	Short: "Analyse one or more news article URLs",
	Long: `Scans each URL in turn and prints its analysis in the chosen --format.
Failures are reported on stderr; the command exits with status 1 when any
scan failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}

		a, err := newApp(cfg, cmd.ErrOrStderr(), false)
		if err != nil {
			return err
		}

		renderer, err := render.New(cfg.OutputFormat(), render.ColorEnabled(cmd.OutOrStdout()))
		if err != nil {
			return err
		}

		failed := false
		for _, rawURL := range args {
			res, scanErr := a.scanner.Scan(cmd.Context(), rawURL)
			if scanErr != nil {
				failed = true
				if err := renderer.Error(cmd.ErrOrStderr(), rawURL, scanErr); err != nil {
					return err
				}
				continue
			}
			if err := renderer.Result(cmd.OutOrStdout(), res); err != nil {
				return err
			}
		}

		if failed {
			return errScanFailed
		}
		return nil
	},
}

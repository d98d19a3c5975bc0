package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"stealthspanner/internal/schedule"
	pkgerrors "stealthspanner/pkg/errors"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Probe servers repeatedly on a fixed interval",
	Long: `Run probe batches on a fixed interval until interrupted. Each batch
is recorded to the history database; results are printed after every run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveCheckOptions(cmd)
		if err != nil {
			return err
		}
		// The interactive progress view doesn't fit an unattended loop.
		opts.Plain = true

		interval, _ := cmd.Flags().GetDuration("interval")
		if interval <= 0 {
			return pkgerrors.ErrInvalidInterval
		}

		scheduler, err := schedule.New()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err = scheduler.Start(interval, func() {
			rep, err := runBatch(ctx, opts)
			if err != nil {
				log.Errorf("Probe batch failed: %v", err)
				return
			}
			if rep != nil {
				printReport(rep)
			}
		})
		if err != nil {
			return err
		}

		log.Infof("Watching every %s, press Ctrl+C to stop", interval)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		log.Info("Stopping...")
		cancel()
		return scheduler.Stop()
	},
}

func init() {
	watchCmd.Flags().Duration("interval", 15*time.Minute, "time between probe batches")
	watchCmd.Flags().IntP("pings", "p", 4, "number of ping attempts per host")
	watchCmd.Flags().IntP("workers", "w", 20, "number of concurrent workers")
	watchCmd.Flags().Float64P("timeout", "t", 3.0, "per-attempt timeout in seconds")
	watchCmd.Flags().StringP("directory", "d", "", "directory containing .ovpn files")
	watchCmd.Flags().String("provider", "", "VPN provider to use")
	watchCmd.Flags().StringP("strategy", "s", "", "probe strategy (tcp, ping)")
	watchCmd.Flags().Bool("no-download", false, "skip downloading VPN config files")
	watchCmd.Flags().Bool("plain", true, "disable the interactive progress display")
	watchCmd.Flags().MarkHidden("plain")

	rootCmd.AddCommand(watchCmd)
}

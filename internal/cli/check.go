package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"stealthspanner/internal/extract"
	"stealthspanner/internal/latency"
	"stealthspanner/internal/report"
	"stealthspanner/internal/storage/models"
	"stealthspanner/internal/tui"
	pkgerrors "stealthspanner/pkg/errors"
)

// checkOptions holds the effective settings for one probe batch.
type checkOptions struct {
	Provider   string
	Directory  string
	Pings      int
	Workers    int
	Timeout    time.Duration
	Strategy   string
	NoDownload bool
	Plain      bool
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe all VPN servers and rank them by latency",
	Long: `Probe every server found in the provider's .ovpn files and print a
ranked report. Configuration files are downloaded first unless auto
download is disabled or --no-download is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveCheckOptions(cmd)
		if err != nil {
			return err
		}
		rep, err := runBatch(context.Background(), opts)
		if err != nil {
			return err
		}
		if rep != nil {
			printReport(rep)
		}
		return nil
	},
}

// resolveCheckOptions merges flags over config-file values and validates
// them. Validation failures here are configuration errors: they abort the
// run before any probing starts.
func resolveCheckOptions(cmd *cobra.Command) (checkOptions, error) {
	cfg := appInstance.Config

	opts := checkOptions{
		Provider: cfg.Provider,
		Pings:    cfg.Pings,
		Workers:  cfg.Workers,
		Timeout:  time.Duration(cfg.TimeoutSeconds * float64(time.Second)),
		Strategy: cfg.Strategy,
	}

	if cmd.Flags().Changed("pings") {
		opts.Pings, _ = cmd.Flags().GetInt("pings")
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("timeout") {
		seconds, _ := cmd.Flags().GetFloat64("timeout")
		opts.Timeout = time.Duration(seconds * float64(time.Second))
	}
	if cmd.Flags().Changed("provider") {
		opts.Provider, _ = cmd.Flags().GetString("provider")
	}
	if cmd.Flags().Changed("strategy") {
		opts.Strategy, _ = cmd.Flags().GetString("strategy")
	}
	opts.NoDownload, _ = cmd.Flags().GetBool("no-download")
	opts.Plain, _ = cmd.Flags().GetBool("plain")

	opts.Directory = cfg.Directory(opts.Provider)
	if cmd.Flags().Changed("directory") {
		opts.Directory, _ = cmd.Flags().GetString("directory")
	}

	if opts.Pings <= 0 {
		return opts, pkgerrors.ErrInvalidAttempts
	}
	if opts.Workers <= 0 {
		return opts, pkgerrors.ErrInvalidWorkers
	}
	if opts.Timeout <= 0 {
		return opts, pkgerrors.ErrInvalidTimeout
	}
	return opts, nil
}

// runBatch downloads configs if enabled, extracts targets, probes them and
// records the outcome. Returns a nil report when there was nothing to probe.
func runBatch(ctx context.Context, opts checkOptions) (*latency.Report, error) {
	cfg := appInstance.Config

	if !opts.NoDownload && cfg.AutoDownload {
		if err := downloadConfigs(ctx, opts.Provider, opts.Directory); err != nil {
			// Never fatal: continue with whatever configs already exist.
			log.Warnf("Failed to download configs: %v. Continuing with existing configs.", err)
		}
	}

	targets, skipped, err := extract.Extract(opts.Directory)
	if err != nil {
		return nil, err
	}
	for _, skip := range skipped {
		log.Warnf("Skipping %s: %s", skip.Source, skip.Reason)
	}
	if len(targets) == 0 {
		log.Warnf("No valid .ovpn files found in %s", opts.Directory)
		return latency.Aggregate(nil), nil
	}

	strategy, err := latency.NewStrategy(opts.Strategy)
	if err != nil {
		return nil, err
	}
	prober, err := latency.NewProber(latency.ProberConfig{
		Strategy: strategy,
		Attempts: opts.Pings,
		Timeout:  opts.Timeout,
	})
	if err != nil {
		return nil, err
	}

	log.Infof("Testing %d hosts with %d pings each (%d workers, %.1fs timeout, %s strategy)",
		len(targets), opts.Pings, opts.Workers, opts.Timeout.Seconds(), strategy.Name())

	pool := latency.NewPool(opts.Workers)
	started := time.Now()

	var outcomes []latency.Outcome
	if !opts.Plain && isatty.IsTerminal(os.Stdout.Fd()) {
		err = tui.Run(ctx, len(targets), func(ctx context.Context, progress func(completed, total int)) {
			outcomes = pool.Run(ctx, targets, prober, progress)
		})
		if err != nil {
			// Progress display failure doesn't invalidate the probe run.
			log.Debugf("Progress view error: %v", err)
		}
	} else {
		outcomes = pool.Run(ctx, targets, prober, func(completed, total int) {
			fmt.Fprintf(os.Stderr, "\rProbing... (%d/%d)", completed, total)
		})
		fmt.Fprintln(os.Stderr)
	}

	rep := latency.Aggregate(outcomes)
	recordRun(ctx, opts, rep, started)
	return rep, nil
}

func downloadConfigs(ctx context.Context, providerName, dir string) error {
	cfg := appInstance.Config

	providerCfg, ok := cfg.ProviderConfig(providerName)
	if !ok {
		return &pkgerrors.ProviderError{Provider: providerName, Err: pkgerrors.ErrProviderUnsupported}
	}
	if !providerCfg.Enabled {
		return &pkgerrors.ProviderError{Provider: providerName, Err: pkgerrors.ErrProviderDisabled}
	}
	if providerCfg.BaseURL == "" {
		return &pkgerrors.ProviderError{Provider: providerName, Err: pkgerrors.ErrProviderNoBaseURL}
	}

	provider, err := appInstance.Providers.Get(providerName)
	if err != nil {
		return err
	}

	log.Infof("Downloading %s VPN configurations...", providerName)
	count, err := provider.Download(ctx, dir, providerCfg.BaseURL)
	if err != nil {
		return err
	}
	log.Infof("Downloaded %d configuration file(s)", count)
	return nil
}

func scoreConfig() latency.ScoreConfig {
	privacy := appInstance.Config.Privacy
	return latency.ScoreConfig{
		PrivacyEnabled: privacy.Enabled,
		PrivacyWeight:  privacy.Weight,
		PrivacyScores:  latency.MergePrivacyScores(privacy.Scores),
	}
}

func printReport(rep *latency.Report) {
	report.Render(os.Stdout, rep, scoreConfig())
	log.Infof("Run complete: %d tested, %d succeeded, %d failed",
		rep.Tested, rep.Succeeded, rep.Tested-rep.Succeeded)
}

// recordRun persists the batch to the history database, best-effort.
func recordRun(ctx context.Context, opts checkOptions, rep *latency.Report, started time.Time) {
	scoreCfg := scoreConfig()

	run := &models.Run{
		Provider:       opts.Provider,
		Strategy:       opts.Strategy,
		Pings:          opts.Pings,
		Workers:        opts.Workers,
		TimeoutSeconds: opts.Timeout.Seconds(),
		Tested:         rep.Tested,
		Succeeded:      rep.Succeeded,
		StartedAt:      started,
		FinishedAt:     time.Now(),
	}

	records := make([]*models.Outcome, 0, len(rep.Outcomes))
	for i := range rep.Outcomes {
		o := &rep.Outcomes[i]
		record := &models.Outcome{
			Source:      o.Target.Source,
			Host:        o.Target.Host,
			Port:        o.Target.Port,
			CountryCode: o.Target.CountryCode,
			Status:      string(o.Status),
			LatencyMS:   o.AvgLatencyMS,
			PacketLoss:  o.PacketLossPct,
			Attempts:    o.Attempts,
			Succeeded:   o.Succeeded,
			Score:       latency.Score(*o, scoreCfg),
			TestedAt:    run.FinishedAt,
		}
		if o.Jitter != nil {
			jitter := o.Jitter.StdDevMS
			record.JitterMS = &jitter
		}
		records = append(records, record)
	}

	if err := appInstance.Storage.RecordRun(ctx, run, records); err != nil {
		log.Warnf("Failed to record run history: %v", err)
	}
}

func init() {
	checkCmd.Flags().IntP("pings", "p", 4, "number of ping attempts per host")
	checkCmd.Flags().IntP("workers", "w", 20, "number of concurrent workers")
	checkCmd.Flags().Float64P("timeout", "t", 3.0, "per-attempt timeout in seconds")
	checkCmd.Flags().StringP("directory", "d", "", "directory containing .ovpn files")
	checkCmd.Flags().String("provider", "", "VPN provider to use")
	checkCmd.Flags().StringP("strategy", "s", "", "probe strategy (tcp, ping)")
	checkCmd.Flags().Bool("no-download", false, "skip downloading VPN config files")
	checkCmd.Flags().Bool("plain", false, "disable the interactive progress display")

	checkCmd.RegisterFlagCompletionFunc("strategy", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"tcp", "ping"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(checkCmd)
}

package cli

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"stealthspanner/internal/app"
	"stealthspanner/internal/logging"
)

var (
	appInstance *app.App
	version     = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stealthspanner",
	Short: "StealthSpanner - VPN server latency checker",
	Long: `StealthSpanner - VPN server latency checker

  Measures reachability latency of VPN servers listed in .ovpn
  configuration files, probing them concurrently and ranking the results.

  Quick start:
    stealthspanner check
    stealthspanner check --pings 6 --workers 30 --timeout 2.5
    stealthspanner history nl-ams-a01.ipvanish.com
    stealthspanner watch --interval 30m

  Core features:
    - Concurrent probing with a bounded worker pool
    - TCP handshake or system ping strategies
    - Automatic provider config download (IPVanish)
    - Composite scoring: latency, jitter, packet loss, privacy`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel, _ := cmd.Flags().GetString("log-level")
		if _, err := logging.Setup(logLevel); err != nil {
			log.Warnf("File logging unavailable: %v", err)
		}

		configPath, _ := cmd.Flags().GetString("config")
		var err error
		appInstance, err = app.New(configPath)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		// Config file may set the level when the flag is left at default.
		if !cmd.Flags().Changed("log-level") {
			if parsed, err := log.ParseLevel(appInstance.Config.LogLevel); err == nil {
				log.SetLevel(parsed)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appInstance != nil {
			return appInstance.Close()
		}
		return nil
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("StealthSpanner %s\n", version)
	},
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download [provider]",
	Short: "Download VPN configuration files",
	Long: `Download the latest .ovpn configuration files for a provider.
Without an argument the configured default provider is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		providerName := appInstance.Config.Provider
		if len(args) > 0 {
			providerName = args[0]
		}

		dir, _ := cmd.Flags().GetString("directory")
		if dir == "" {
			dir = appInstance.Config.Directory(providerName)
		}

		if err := downloadConfigs(context.Background(), providerName, dir); err != nil {
			return err
		}
		fmt.Printf("Configuration files saved to %s\n", dir)
		return nil
	},
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var names []string
		for _, name := range appInstance.Providers.Names() {
			if strings.HasPrefix(name, toComplete) {
				names = append(names, name)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	},
}

func init() {
	downloadCmd.Flags().StringP("directory", "d", "", "destination directory for .ovpn files")

	rootCmd.AddCommand(downloadCmd)
}

package main

import (
	"context"

	"heartquiz/internal/config"
	"heartquiz/internal/handoff"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "quiz",
	Short:         "Compatibility quiz in your terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return playCmd.RunE(cmd, args)
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("api", "", "Base URL of the quiz API (overrides QUIZ_API_URL)")
	rootCmd.PersistentFlags().Int("threshold", 0, "Option count from which questions use a slider")
	rootCmd.PersistentFlags().String("store", "", "Path to the local hand-off database (overrides QUIZ_STORE)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(resultsCmd)
}

// openStore resolves the hand-off database from --store, then QUIZ_STORE,
// then the default path under the home directory.
func openStore(cmd *cobra.Command, cfg *config.ClientConfig) (*handoff.Store, func() error, error) {
	path, _ := cmd.Flags().GetString("store")
	if path == "" {
		path = cfg.StorePath
	}
	if path == "" {
		p, err := handoff.DefaultSQLitePath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}

	kv, err := handoff.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return handoff.New(kv), kv.Close, nil
}

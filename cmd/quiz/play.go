package main

import (
	"fmt"

	"heartquiz/internal/config"
	"heartquiz/internal/model"
	"heartquiz/internal/questionnaire"
	"heartquiz/internal/service"
	"heartquiz/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Answer the questionnaire",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadClient()
		if api, _ := cmd.Flags().GetString("api"); api != "" {
			cfg.APIURL = api
		}
		if n, _ := cmd.Flags().GetInt("threshold"); n > 0 {
			cfg.SliderThreshold = n
		}

		store, closeStore, err := openStore(cmd, cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer closeStore()

		backend := config.LoadBackend()
		backend.BaseURL = cfg.APIURL
		client := service.NewBackendClient(backend, zap.NewNop())

		ctx := cmd.Context()
		m := tui.New(ctx, client, client, store, questionnaire.WithSliderThreshold(cfg.SliderThreshold))

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
		final, err := p.Run()
		if err != nil {
			return err
		}

		if fm, ok := final.(tui.Model); ok && fm.Controller().State() == model.SessionDone {
			fmt.Fprintln(cmd.OutOrStdout(), "Answers analyzed. Run `quiz results` to view them.")
		}
		return nil
	},
}

package main

import (
	"fmt"
	"io"

	"heartquiz/internal/config"
	"heartquiz/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E91E63"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8F98"))
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show the analysis of your last questionnaire",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cmd, config.LoadClient())
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer closeStore()

		result, err := store.Analysis(cmd.Context())
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
			return nil
		}

		summary, err := result.Summary()
		if err != nil {
			// Not the usual shape; show it as stored
			fmt.Fprintln(cmd.OutOrStdout(), string(result))
			return nil
		}
		renderSummary(cmd.OutOrStdout(), summary)
		return nil
	},
}

func renderSummary(w io.Writer, s *model.AnalysisSummary) {
	fmt.Fprintln(w, headerStyle.Render("Your emotional profile"))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Primary:  "), s.PrimaryEmotion)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Secondary:"), s.SecondaryEmotion)
	fmt.Fprintf(w, "%s P %+.2f  A %+.2f  D %+.2f\n", labelStyle.Render("Core PAD: "),
		s.CoreTriad.Pleasure, s.CoreTriad.Arousal, s.CoreTriad.Dominance)

	if len(s.TopEmotions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Top emotions"))
		for _, e := range s.TopEmotions {
			fmt.Fprintf(w, "  %-15s %3d%%\n", e.Name, e.Score)
		}
	}
}

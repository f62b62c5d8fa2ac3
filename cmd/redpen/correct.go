package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/redpen-dev/redpen/internal/provider"
	"github.com/redpen-dev/redpen/internal/workbench"
)

func newCorrectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correct <file>",
		Short: "Grade an essay file and print the feedback",
		Long: `Send an essay to the AI grader and print the band score, summary, and
inline annotations. Annotations that could not be located in the text
are reported separately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading essay: %w", err)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ai := provider.NewHTTPClient(cfg.ProviderClientConfig())

			session := workbench.NewSession(args[0], string(data))
			gen := session.BeginCorrection()

			feedback, err := ai.Correct(cmd.Context(), session.Document())
			if err != nil {
				return fmt.Errorf("grading essay: %w", err)
			}
			session.ApplyFeedback(gen, feedback)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"feedback": feedback,
					"matches":  session.Matches(),
				})
			}

			fmt.Printf("Score: %.1f\n", feedback.Score)
			if feedback.Summary != "" {
				fmt.Printf("Summary: %s\n", feedback.Summary)
			}
			for _, item := range feedback.Breakdown {
				fmt.Printf("  %s: %.1f\n", item.Label, item.Value)
			}

			located := make(map[string]bool)
			for _, m := range session.Matches() {
				located[m.AnnotationID] = true
			}

			fmt.Printf("\nAnnotations (%d):\n", len(feedback.Annotations))
			for _, ann := range feedback.Annotations {
				marker := " "
				if !located[ann.ID] {
					marker = "?"
				}
				fmt.Printf("%s [%s] %q -> %q\n", marker, ann.Type, ann.OriginalText, ann.Suggestion)
				if ann.Reason != "" {
					fmt.Printf("    %s\n", ann.Reason)
				}
			}
			if unlocated := len(feedback.Annotations) - len(located); unlocated > 0 {
				fmt.Printf("\n%d annotation(s) could not be located in the text (marked ?).\n", unlocated)
			}

			return nil
		},
	}
}

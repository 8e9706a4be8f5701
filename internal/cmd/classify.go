package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/godilite/feedback-insights/internal/classifier"
	"github.com/godilite/feedback-insights/internal/feedback"
)

func newClassifyCmd(c *cli) *cobra.Command {
	var lang string

	classifyCmd := &cobra.Command{
		Use:   "classify SUBJECT...",
		Short: "Show the categories the keyword classifier assigns to a subject",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl := classifier.New(lang)
			subject := strings.Join(args, " ")
			w := cmd.OutOrStdout()

			tags := cl.Classify(subject)
			c.logger.Debug("classified subject",
				zap.String("lang", cl.Language()),
				zap.Strings("tags", tags))
			if len(tags) == 0 {
				tags = []string{"-"}
			}
			fmt.Fprintf(w, "categories: %s\n", strings.Join(tags, ", "))
			fmt.Fprintf(w, "sentiment score: %d\n", cl.Score(subject))

			hits := cl.Keywords(subject)
			for _, cat := range feedback.Vocabulary() {
				if kw := hits[cat]; len(kw) > 0 {
					fmt.Fprintf(w, "  %-16s %s\n", cat, strings.Join(kw, ", "))
				}
			}
			return nil
		},
	}

	classifyCmd.Flags().StringVar(&lang, "lang", "en", fmt.Sprintf("Keyword language, one of %v", classifier.Languages()))
	return classifyCmd
}

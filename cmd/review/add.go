package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"studyreview/internal/api"
)

func newAddCmd() *cobra.Command {
	var req api.StudyRequest
	var options []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a studied topic and its review plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := parseOptions(options)
			if err != nil {
				return err
			}
			if req.ContentType == "quiz" {
				req.QuizQuestion, req.Question = req.Question, ""
				req.Options = opts
			}

			c, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.RegisterStudy(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s / %s\n", req.Subject, req.Topic)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Subject, "subject", "", "subject name")
	flags.StringVar(&req.Topic, "topic", "", "topic studied")
	flags.StringVar(&req.ContentType, "type", "simple", "review format: simple, flashcard or quiz")
	flags.StringVar(&req.Question, "question", "", "flashcard or quiz question")
	flags.StringVar(&req.Answer, "answer", "", "flashcard answer")
	flags.StringSliceVar(&options, "option", nil, "quiz alternative as KEY=text, repeatable")
	flags.StringVar(&req.CorrectOption, "correct", "", "key of the correct quiz alternative")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

// parseOptions turns KEY=text pairs into the quiz alternatives map
func parseOptions(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	opts := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, text, ok := strings.Cut(pair, "=")
		key = strings.ToUpper(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q, expected KEY=text", pair)
		}
		opts[key] = strings.TrimSpace(text)
	}
	return opts, nil
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync/atomic"

	"github.com/spf13/cobra"

	"studyreview/internal/api"
	"studyreview/internal/client"
	"studyreview/internal/session"
)

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Start an interactive review session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			return runSession(cmd.Context(), c, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// termPresenter prints tracker signals to the terminal
type termPresenter struct {
	out    io.Writer
	reload atomic.Bool
}

func (p *termPresenter) OpenConfirmation(id session.ItemID, suggestion *session.Quality) {
	fmt.Fprintf(p.out, "Grading review %s. Use conf <1-5> and grade <0-5>, or cancel.\n", id)
	if suggestion != nil {
		fmt.Fprintln(p.out, session.SuggestionText(*suggestion))
	}
}

func (p *termPresenter) CloseConfirmation(id session.ItemID) {}

func (p *termPresenter) QuizAnswered(group, correct, chosen string, ok bool) {
	if ok {
		fmt.Fprintf(p.out, "Correct: %s\n", correct)
		return
	}
	fmt.Fprintf(p.out, "Wrong: you chose %s, the answer is %s\n", chosen, correct)
}

func (p *termPresenter) ItemCompleted(id session.ItemID, o session.Outcome) {
	fmt.Fprintf(p.out, "Review %s done. Next review on %s (in %d days).\n", id, o.NextReview, o.IntervalDays)
}

func (p *termPresenter) ReloadSession() {
	p.reload.Store(true)
}

func (p *termPresenter) Notify(message string) {
	fmt.Fprintln(p.out, message)
}

// runSession reads commands from in until quit or EOF
func runSession(ctx context.Context, c *client.Client, in io.Reader, out io.Writer) error {
	presenter := &termPresenter{out: out}
	tracker := session.NewTracker(c, presenter)
	defer tracker.Close()

	reviews, err := loadReviews(ctx, c, tracker)
	if err != nil {
		return err
	}
	printReviews(out, reviews)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		parsed, err := parseLine(scanner.Text(), reviews)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		switch parsed.action {
		case actionQuit:
			return nil
		case actionHelp:
			fmt.Fprintln(out, helpText)
		case actionList:
			printReviews(out, reviews)
		case actionCommand:
			active, _ := tracker.Active()
			err := tracker.Dispatch(ctx, parsed.cmd)
			var guard *session.GuardError
			var transport *session.TransportError
			switch {
			case err == nil, errors.As(err, &guard), errors.As(err, &transport), errors.Is(err, session.ErrNoActiveSelection):
				// already reported through the presenter
			default:
				fmt.Fprintln(out, err)
			}
			if err == nil {
				switch parsed.cmd.Kind {
				case session.CommandRevealAnswer:
					fmt.Fprintf(out, "    A: %s\n", reviews[parsed.cmd.ItemID].Answer)
				case session.CommandSubmitGrade:
					delete(reviews, active)
				}
			}
		}

		if presenter.reload.Swap(false) {
			if reviews, err = loadReviews(ctx, c, tracker); err != nil {
				return err
			}
			printReviews(out, reviews)
		}
	}
}

// loadReviews fetches the due reviews and adds them to the session
func loadReviews(ctx context.Context, c *client.Client, tracker *session.Tracker) (map[session.ItemID]api.Review, error) {
	list, err := c.DueReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	reviews := make(map[session.ItemID]api.Review, len(list.Urgent)+len(list.Upcoming))
	for _, group := range [][]api.Review{list.Urgent, list.Upcoming} {
		for _, r := range group {
			id := session.ItemID(r.ID)
			reviews[id] = r
			tracker.Show(id)
		}
	}
	return reviews, nil
}

func printReviews(out io.Writer, reviews map[session.ItemID]api.Review) {
	if len(reviews) == 0 {
		fmt.Fprintln(out, "No reviews due. Well done!")
		return
	}
	ids := make([]session.ItemID, 0, len(reviews))
	for id := range reviews {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := reviews[ids[i]], reviews[ids[j]]
		if a.DueOn != b.DueOn {
			return a.DueOn < b.DueOn
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		r := reviews[id]
		fmt.Fprintf(out, "[%s] %s / %s (%s, %s, due %s)\n", id, r.Subject, r.Topic, r.Kind, r.Mode, r.DueOn)
		switch session.Mode(r.Mode) {
		case session.ModeFlashcard:
			fmt.Fprintf(out, "    Q: %s\n", r.Question)
		case session.ModeQuiz:
			fmt.Fprintf(out, "    Q: %s\n", r.Question)
			keys := make([]string, 0, len(r.Options))
			for k := range r.Options {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "    %s) %s\n", k, r.Options[k])
			}
		}
	}
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"studyreview/internal/api"
	"studyreview/internal/session"
)

type lineAction int

const (
	actionNone lineAction = iota
	actionCommand
	actionList
	actionHelp
	actionQuit
)

const helpText = `Commands:
  list               show the due reviews
  start <id>         start the timer of a review
  show <id>          reveal a flashcard answer
  right <id>         flashcard: I got it right
  wrong <id>         flashcard: I got it wrong
  pick <id> <key>    quiz: choose an alternative
  done <id>          open the grade step
  conf <1-5>         set the confidence level
  grade <0-5>        submit the grade of the open review
  cancel             close the grade step
  quit`

// parsedLine is one line of terminal input
type parsedLine struct {
	action lineAction
	cmd    session.Command
}

// parseLine maps a line typed in a session to a tracker command. reviews
// supplies the mode and the correct alternative of each listed review.
func parseLine(line string, reviews map[session.ItemID]api.Review) (parsedLine, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return parsedLine{action: actionNone}, nil
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "list", "ls":
		return parsedLine{action: actionList}, nil
	case "help", "?":
		return parsedLine{action: actionHelp}, nil
	case "quit", "exit", "q":
		return parsedLine{action: actionQuit}, nil
	case "cancel":
		return command(session.Command{Kind: session.CommandCancelFinalize}), nil
	case "conf":
		n, err := intArg(args, 1, 5)
		if err != nil {
			return parsedLine{}, err
		}
		return command(session.Command{Kind: session.CommandSetConfidence, Level: n}), nil
	case "grade":
		n, err := intArg(args, 0, 5)
		if err != nil {
			return parsedLine{}, err
		}
		return command(session.Command{Kind: session.CommandSubmitGrade, Quality: session.Quality(n)}), nil
	}

	if len(args) == 0 {
		return parsedLine{}, fmt.Errorf("%s needs a review id", verb)
	}
	id, review, err := lookup(args[0], reviews)
	if err != nil {
		return parsedLine{}, err
	}

	switch verb {
	case "start":
		return command(session.Command{Kind: session.CommandStartTimer, ItemID: id}), nil
	case "show":
		return command(session.Command{Kind: session.CommandRevealAnswer, ItemID: id}), nil
	case "right":
		return command(session.Command{Kind: session.CommandSelfGrade, ItemID: id, Quality: session.QualityGood}), nil
	case "wrong":
		return command(session.Command{Kind: session.CommandSelfGrade, ItemID: id, Quality: session.QualityFailed}), nil
	case "done":
		return command(session.Command{Kind: session.CommandOpenFinalize, ItemID: id, Mode: session.Mode(review.Mode)}), nil
	case "pick":
		if len(args) < 2 {
			return parsedLine{}, fmt.Errorf("pick needs a review id and an alternative")
		}
		if review.Mode != string(session.ModeQuiz) {
			return parsedLine{}, fmt.Errorf("review %s is not a quiz", id)
		}
		chosen, ok := matchOption(review.Options, args[1])
		if !ok {
			return parsedLine{}, fmt.Errorf("review %s has no alternative %s", id, args[1])
		}
		return command(session.Command{
			Kind:    session.CommandChooseAlternative,
			ItemID:  id,
			Correct: review.CorrectOption,
			Chosen:  chosen,
			Group:   "quiz-" + id.String(),
		}), nil
	}
	return parsedLine{}, fmt.Errorf("unknown command %q, type help", verb)
}

// matchOption finds the alternative key typed by the user. An exact match
// wins; otherwise keys are compared ignoring case.
func matchOption(options map[string]string, typed string) (string, bool) {
	if _, ok := options[typed]; ok {
		return typed, true
	}
	for key := range options {
		if strings.EqualFold(key, typed) {
			return key, true
		}
	}
	return "", false
}

func command(cmd session.Command) parsedLine {
	return parsedLine{action: actionCommand, cmd: cmd}
}

func intArg(args []string, lo, hi int) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("expected a number between %d and %d", lo, hi)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("expected a number between %d and %d, got %q", lo, hi, args[0])
	}
	return n, nil
}

func lookup(arg string, reviews map[session.ItemID]api.Review) (session.ItemID, api.Review, error) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, api.Review{}, fmt.Errorf("invalid review id %q", arg)
	}
	id := session.ItemID(n)
	review, ok := reviews[id]
	if !ok {
		return 0, api.Review{}, fmt.Errorf("review %s is not in this session", id)
	}
	return id, review, nil
}

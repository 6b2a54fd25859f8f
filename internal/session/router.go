package session

import (
	"context"
	"fmt"
)

// CommandKind names a UI trigger.
type CommandKind int

const (
	CommandStartTimer CommandKind = iota + 1
	CommandRevealAnswer
	CommandSelfGrade
	CommandChooseAlternative
	CommandOpenFinalize
	CommandSubmitGrade
	CommandCancelFinalize
	CommandSetConfidence
)

var commandNames = map[CommandKind]string{
	CommandStartTimer:        "start-timer",
	CommandRevealAnswer:      "reveal-answer",
	CommandSelfGrade:         "self-grade",
	CommandChooseAlternative: "choose-alternative",
	CommandOpenFinalize:      "open-finalize",
	CommandSubmitGrade:       "submit-grade",
	CommandCancelFinalize:    "cancel-finalize",
	CommandSetConfidence:     "set-confidence",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// Command is a UI trigger tagged with the item it concerns. Fields that do
// not apply to Kind are ignored.
type Command struct {
	Kind    CommandKind
	ItemID  ItemID
	Mode    Mode
	Quality Quality

	// Quiz alternatives.
	Correct string
	Chosen  string
	Group   string

	// Confidence level for CommandSetConfidence.
	Level int
}

// Dispatch routes cmd to the matching tracker operation.
func (t *Tracker) Dispatch(ctx context.Context, cmd Command) error {
	switch cmd.Kind {
	case CommandStartTimer:
		t.StartTimer(cmd.ItemID)
	case CommandRevealAnswer:
		t.RevealAnswer(cmd.ItemID)
	case CommandSelfGrade:
		t.SelfGrade(cmd.ItemID, cmd.Quality)
	case CommandChooseAlternative:
		_, err := t.EvaluateQuiz(cmd.ItemID, cmd.Correct, cmd.Chosen, cmd.Group)
		return err
	case CommandOpenFinalize:
		return t.OpenFinalize(cmd.ItemID, cmd.Mode)
	case CommandSubmitGrade:
		_, err := t.Submit(ctx, cmd.Quality)
		return err
	case CommandCancelFinalize:
		t.CancelFinalize()
	case CommandSetConfidence:
		return t.SetConfidence(cmd.Level)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Kind)
	}
	return nil
}

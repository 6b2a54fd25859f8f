package session

// Outcome is what the scheduler answered for a graded item.
type Outcome struct {
	ItemID       ItemID
	Quality      Quality
	ResponseTime *int
	NextReview   string
	IntervalDays int
}

// Presenter receives the UI-facing signals of a review session. Calls are
// made without the tracker lock held.
type Presenter interface {
	// OpenConfirmation opens the grade step for id; suggestion is nil when
	// the step was opened manually.
	OpenConfirmation(id ItemID, suggestion *Quality)
	CloseConfirmation(id ItemID)
	// QuizAnswered disables the alternatives of group and marks the correct
	// one, and the chosen one when it differs.
	QuizAnswered(group, correct, chosen string, ok bool)
	ItemCompleted(id ItemID, outcome Outcome)
	ReloadSession()
	Notify(message string)
}

// NopPresenter discards every signal. Embed it to implement only part of
// Presenter.
type NopPresenter struct{}

func (NopPresenter) OpenConfirmation(ItemID, *Quality) {}
func (NopPresenter) CloseConfirmation(ItemID) {}
func (NopPresenter) QuizAnswered(string, string, string, bool) {}
func (NopPresenter) ItemCompleted(ItemID, Outcome) {}
func (NopPresenter) ReloadSession() {}
func (NopPresenter) Notify(string) {}

package session

import "fmt"

// EvaluateQuiz grades a quiz choice for id: a correct choice suggests
// QualityGood, anything else QualityFailed. The item counts as interacted and
// the confirmation step opens with the suggestion.
//
// Only the first choice per item is evaluated; later calls return
// ErrAlreadyAnswered and leave the session untouched.
func (t *Tracker) EvaluateQuiz(id ItemID, correct, chosen, group string) (Quality, error) {
	t.mu.Lock()
	if it, ok := t.items[id]; ok && it.quizAnswered {
		t.mu.Unlock()
		return 0, fmt.Errorf("review %s: %w", id, ErrAlreadyAnswered)
	}

	ok := chosen == correct
	q := quizQuality(ok)

	it := t.itemLocked(id)
	it.interacted = true
	it.quizAnswered = true
	t.startLocked(id)
	t.selectLocked(id, &q)
	t.mu.Unlock()

	t.presenter.QuizAnswered(group, correct, chosen, ok)
	t.presenter.OpenConfirmation(id, &q)
	return q, nil
}

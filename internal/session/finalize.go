package session

// SuggestQuality targets id with a pre-filled quality and opens the
// confirmation step. The user may still pick another grade.
func (t *Tracker) SuggestQuality(id ItemID, q Quality) {
	t.mu.Lock()
	t.selectLocked(id, &q)
	t.mu.Unlock()

	t.presenter.OpenConfirmation(id, &q)
}

// OpenFinalize is the manual "mark done" trigger. Flashcard and quiz items
// must have been interacted with first; otherwise a *GuardError is returned
// and nothing changes. A manual open always drops any previous suggestion.
func (t *Tracker) OpenFinalize(id ItemID, mode Mode) error {
	t.mu.Lock()
	if mode.Gated() {
		if it, ok := t.items[id]; !ok || !it.interacted {
			t.mu.Unlock()
			err := &GuardError{ItemID: id, Mode: mode}
			t.presenter.Notify(err.Message())
			return err
		}
	}
	t.selectLocked(id, nil)
	t.startLocked(id)
	t.mu.Unlock()

	t.presenter.OpenConfirmation(id, nil)
	return nil
}

// CancelFinalize closes the confirmation step without grading. The item keeps
// its timer and interaction state and can be finalized later.
func (t *Tracker) CancelFinalize() {
	t.mu.Lock()
	if !t.sel.hasActive {
		t.mu.Unlock()
		return
	}
	id := t.sel.active
	t.sel = selection{}
	t.mu.Unlock()

	t.presenter.CloseConfirmation(id)
}

// SetConfidence records the confidence control (1-5) for the next submission.
func (t *Tracker) SetConfidence(level int) error {
	if level < 1 || level > 5 {
		return ErrInvalidConfidence
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sel.confidence = level
	return nil
}

func (t *Tracker) selectLocked(id ItemID, suggestion *Quality) {
	t.sel.active = id
	t.sel.hasActive = true
	t.sel.suggestion = suggestion
}

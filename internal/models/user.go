package models

import "time"

// User represents a study account
type User struct {
	ID                int64
	Name              string
	Email             string
	PasswordHash      string
	NotificationEmail string
	RemindersEnabled  bool
	PreExamMode       bool
	PreExamFactor     float64
	CreatedAt         time.Time
}

// ReminderAddress is where reminder emails go: the notification address when
// set, otherwise the login email
func (u *User) ReminderAddress() string {
	if u.NotificationEmail != "" {
		return u.NotificationEmail
	}
	return u.Email
}

// Session represents an authenticated session carried by a signed token
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

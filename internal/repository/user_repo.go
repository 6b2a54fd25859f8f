package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studyreview/internal/database"
	"studyreview/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, notification_email, reminders_enabled, pre_exam_mode, pre_exam_factor`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.NotificationEmail,
		&user.RemindersEnabled,
		&user.PreExamMode,
		&user.PreExamFactor,
	)
	return user, err
}

// CreateUser inserts a new user. The login email doubles as the reminder
// address and reminders start enabled.
func (r *UserRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, notification_email, reminders_enabled, pre_exam_mode, pre_exam_factor)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	user := &models.User{
		Name:              name,
		Email:             email,
		PasswordHash:      passwordHash,
		NotificationEmail: email,
		RemindersEnabled:  true,
		PreExamFactor:     0.6,
	}
	id, err := r.db.ExecReturningID(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.NotificationEmail,
		user.RemindersEnabled, user.PreExamMode, user.PreExamFactor)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return user, nil
}

// GetUserByEmail retrieves a user by email address; nil when absent
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID; nil when absent
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListReminderRecipients returns users who have reminders enabled
func (r *UserRepository) ListReminderRecipients(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reminders_enabled = ` +
		r.db.GetDialect().BoolValue(true) + ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminder recipients: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

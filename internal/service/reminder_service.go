package service

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"studyreview/internal/models"
	"studyreview/internal/repository"
)

// Mailer delivers reminder emails. *EmailService is the production Mailer.
type Mailer interface {
	SendReminderEmail(ctx context.Context, toEmail, toName string, items []ReminderItem) error
}

// maxConcurrentReminders bounds the emails in flight during one run
const maxConcurrentReminders = 4

// ReminderService emails users about reviews that are due soon
type ReminderService struct {
	userRepo   *repository.UserRepository
	reviewRepo *repository.ReviewRepository
	mailer     Mailer
	leadDays   int
	now        func() time.Time
}

// NewReminderService creates a reminder service covering reviews due within
// leadDays of today. Overdue reviews are always included.
func NewReminderService(userRepo *repository.UserRepository, reviewRepo *repository.ReviewRepository, mailer Mailer, leadDays int) *ReminderService {
	if leadDays < 0 {
		leadDays = 0
	}
	return &ReminderService{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		mailer:     mailer,
		leadDays:   leadDays,
		now:        time.Now,
	}
}

// RunOnce sends one reminder to every opted-in user with pending reviews and
// returns how many were sent. A failed send is logged and does not stop the
// others.
func (s *ReminderService) RunOnce(ctx context.Context) (int, error) {
	log.Printf("Checking reminders...")

	users, err := s.userRepo.ListReminderRecipients(ctx)
	if err != nil {
		return 0, err
	}

	today := s.now()
	limit := models.FormatDate(today.AddDate(0, 0, s.leadDays))

	var sent atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReminders)
	var loadErr error
	for _, user := range users {
		reviews, err := s.reviewRepo.ListDue(ctx, user.ID, limit, false)
		if err != nil {
			loadErr = fmt.Errorf("failed to load reviews for user %d: %w", user.ID, err)
			break
		}
		if len(reviews) == 0 {
			continue
		}

		items := make([]ReminderItem, 0, len(reviews))
		for _, r := range reviews {
			items = append(items, ReminderItem{
				Subject:  r.Subject,
				Topic:    r.Topic,
				Kind:     r.Kind,
				DaysLeft: r.DaysLeft(today),
			})
		}

		to, name := user.ReminderAddress(), user.Name
		g.Go(func() error {
			if err := s.mailer.SendReminderEmail(gctx, to, name, items); err != nil {
				log.Printf("Failed to send reminder to %s (%s): %v", name, to, err)
				return nil
			}
			log.Printf("Reminder sent to %s (%s)", name, to)
			sent.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(sent.Load()), err
	}
	return int(sent.Load()), loadErr
}

// Run calls RunOnce every interval until ctx is cancelled
func (s *ReminderService) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil {
			log.Printf("Reminder run failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"studyreview/internal/config"
	"studyreview/internal/database"
	"studyreview/internal/repository"
	"studyreview/internal/service"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	emailService, err := service.NewEmailService(ctx, service.EmailConfig{
		Region:     cfg.AWSRegion,
		FromEmail:  cfg.SESFromEmail,
		FromName:   cfg.SESFromName,
		AppBaseURL: cfg.AppBaseURL,
		Debug:      cfg.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	if !emailService.IsEnabled() {
		log.Println("Warning: reminders will be logged but not delivered")
	}

	reminders := service.NewReminderService(
		repository.NewUserRepository(db),
		repository.NewReviewRepository(db),
		emailService,
		cfg.ReminderLeadDays,
	)

	if cfg.RunOnce {
		sent, err := reminders.RunOnce(ctx)
		if err != nil {
			log.Fatalf("Reminder run failed: %v", err)
		}
		log.Printf("Reminder run finished: %d sent", sent)
		return
	}

	log.Printf("Reminder worker started (interval: %s, lead days: %d)", cfg.ReminderInterval, cfg.ReminderLeadDays)
	if err := reminders.Run(ctx, cfg.ReminderInterval); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Reminder worker failed: %v", err)
	}
	log.Println("Reminder worker stopped")
}

// @title			TaskPulse API
// @version		1.0
// @description	Task tracker with role-gated lifecycle, due-date tracking and email reminders.
// @BasePath		/api/v1

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mtlprog/taskpulse/internal/config"
	"github.com/mtlprog/taskpulse/internal/database"
	"github.com/mtlprog/taskpulse/internal/handler"
	"github.com/mtlprog/taskpulse/internal/logger"
	"github.com/mtlprog/taskpulse/internal/mailer"
	"github.com/mtlprog/taskpulse/internal/repository"
	"github.com/mtlprog/taskpulse/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	smtpFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP relay host",
			EnvVars: []string{"SMTP_HOST"},
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   config.DefaultSMTPPort,
			Usage:   "SMTP relay port",
			EnvVars: []string{"SMTP_PORT"},
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP auth username (empty disables auth)",
			EnvVars: []string{"SMTP_USERNAME"},
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP auth password",
			EnvVars: []string{"SMTP_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "Sender address for notification email",
			EnvVars: []string{"SMTP_FROM"},
		},
	}

	app := &cli.App{
		Name:  "taskpulse",
		Usage: "Task tracker with deadlines and email reminders",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server and reminder scheduler",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
				}, smtpFlags...),
				Action: runServe,
			},
			{
				Name:   "check-overdue",
				Usage:  "Mark all tasks past their due date as overdue and exit",
				Action: runCheckOverdue,
			},
			{
				Name:   "remind",
				Usage:  "Run one reminder pass and exit",
				Flags:  smtpFlags,
				Action: runRemind,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func smtpConfig(c *cli.Context) mailer.Config {
	return mailer.Config{
		Host:     c.String("smtp-host"),
		Port:     c.Int("smtp-port"),
		Username: c.String("smtp-username"),
		Password: c.String("smtp-password"),
		From:     c.String("smtp-from"),
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	smtpMailer := mailer.New(smtpConfig(c))

	h := handler.New(db.Pool(), smtpMailer)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	taskRepo := repository.NewTaskRepository(db.Pool())
	userRepo := repository.NewUserRepository(db.Pool())
	reminders := service.NewReminderService(taskRepo, userRepo, smtpMailer)

	scheduler := service.NewScheduler()
	if _, err := scheduler.ScheduleEvery(service.TickInterval, func() {
		if _, err := reminders.RunTick(ctx); err != nil {
			slog.Error("reminder tick failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runCheckOverdue(c *cli.Context) error {
	ctx := c.Context
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	taskRepo := repository.NewTaskRepository(db.Pool())
	updated, err := taskRepo.MarkAllOverdue(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark overdue tasks: %w", err)
	}

	slog.Info("overdue check completed", "tasks_updated", updated)
	return nil
}

func runRemind(c *cli.Context) error {
	ctx := c.Context
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	taskRepo := repository.NewTaskRepository(db.Pool())
	userRepo := repository.NewUserRepository(db.Pool())
	reminders := service.NewReminderService(taskRepo, userRepo, mailer.New(smtpConfig(c)))

	sent, err := reminders.RunTick(ctx)
	if err != nil {
		return fmt.Errorf("reminder pass failed: %w", err)
	}

	slog.Info("reminder pass completed", "reminders_sent", sent)
	return nil
}

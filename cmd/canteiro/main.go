package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/canteiro/internal/cli"
	"github.com/alexanderramin/canteiro/internal/config"
	"github.com/alexanderramin/canteiro/internal/db"
	"github.com/alexanderramin/canteiro/internal/repository"
	"github.com/alexanderramin/canteiro/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	eventRepo := repository.NewSQLiteEventRepo(database)
	adherenceRepo := repository.NewSQLiteAdherenceRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		if cfg.LogFormat == "json" {
			observers = append(observers, service.NewJSONUseCaseObserver(os.Stderr))
		} else {
			observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
		}
	}

	policy := cfg.AdherencePolicy()
	timelineCfg := service.TimelineConfig{
		Policy:    policy,
		Rules:     cfg.InterpreterRules(),
		MaxEvents: cfg.MaxEvents,
		Now:       time.Now,
	}

	app := &cli.App{
		Projects:      service.NewProjectService(projectRepo, uow, policy, observers...),
		Timeline:      service.NewTimelineService(taskRepo, eventRepo, adherenceRepo, uow, timelineCfg, observers...),
		Status:        service.NewStatusService(projectRepo, taskRepo, adherenceRepo, policy),
		Location:      time.Local,
		InboxDebounce: cfg.InboxDebounce(),
	}

	// Only prompt for missing inputs on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

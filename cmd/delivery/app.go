package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"delivery-scheduler/internal/common/logger"
	"delivery-scheduler/internal/config"
	"delivery-scheduler/internal/connections/database"
	"delivery-scheduler/internal/microservices/reconciler"
	"delivery-scheduler/internal/microservices/reconciler/repository"
	"delivery-scheduler/internal/microservices/reconciler/service"
)

const serviceName = "delivery-scheduler"

// app holds what every subcommand needs; close releases it.
type app struct {
	cfg  *config.Config
	db   *sql.DB
	repo *repository.Repository
	svc  *service.Service
	log  *logger.Logger
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.FindConfig()
		if err != nil && !config.IsNotExist(err) {
			return nil, err
		}
		path = found
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newApp loads config and opens the store. Each invocation gets its own
// request id so one run's log lines can be grouped.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	lg := logger.New(serviceName).WithRequestID(uuid.NewString())

	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	svc, repo, err := reconciler.NewService(cfg, db, reconciler.NewCaches(), lg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &app{cfg: cfg, db: db, repo: repo, svc: svc, log: lg}, nil
}

func (a *app) close() { _ = a.db.Close() }

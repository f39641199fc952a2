package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/thesis-api/db"
	"github.com/noah-isme/thesis-api/internal/repository"
	"github.com/noah-isme/thesis-api/pkg/config"
	"github.com/noah-isme/thesis-api/pkg/database"
	"github.com/noah-isme/thesis-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	dbx, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.ApplySchema(ctx, dbx, db.Schema); err != nil {
		logr.Fatal("failed to apply schema", zap.Error(err))
	}

	s := &seeder{
		tx:       repository.NewTxManager(dbx),
		accounts: repository.NewAccountRepository(dbx),
		teachers: repository.NewTeacherRepository(dbx),
		students: repository.NewStudentRepository(dbx),
		topics:   repository.NewTopicRepository(dbx),
		logger:   logr,
	}
	if err := s.Run(ctx, defaultPlan()); err != nil {
		logr.Fatal("seeding failed", zap.Error(err))
	}
	logr.Info("seeding complete")
}

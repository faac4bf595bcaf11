package repositories

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iam-sarthakdev/MockMate-AI/internal/config"
	"github.com/iam-sarthakdev/MockMate-AI/internal/repositories/mongo"
	"github.com/iam-sarthakdev/MockMate-AI/internal/repositories/sqlstore"
)

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Interviews InterviewRepository
	Feedback   FeedbackRepository
	Driver     string

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects the backend selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case "mongo":
		return openMongo(ctx, cfg, logger)
	case "postgres":
		db, err := sqlstore.Open(sqlstore.DriverPostgres, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to postgres store")
		return NewSQLStore(db, "postgres"), nil
	case "sqlite":
		db, err := sqlstore.Open(sqlstore.DriverSQLite, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("Opened sqlite store", zap.String("path", cfg.SQLitePath))
		return NewSQLStore(db, "sqlite"), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	client := mongo.NewClient(cfg.MongoURI, cfg.MongoDB)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	db, err := client.DB()
	if err != nil {
		return nil, err
	}

	interviews := mongo.NewInterviewRepo(db.Collection(mongo.InterviewsCollection))
	feedback := mongo.NewFeedbackRepo(db.Collection(mongo.FeedbackCollection))
	if err := interviews.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure interview indexes", zap.Error(err))
	}
	if err := feedback.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure feedback indexes", zap.Error(err))
	}
	logger.Info("Connected to mongo store", zap.String("database", cfg.MongoDB))

	return &Store{
		Interviews: interviews,
		Feedback:   feedback,
		Driver:     "mongo",
		ping:       client.Ping,
		close:      client.Disconnect,
	}, nil
}

// NewSQLStore wraps an already migrated gorm handle.
func NewSQLStore(db *gorm.DB, driver string) *Store {
	return &Store{
		Interviews: sqlstore.NewInterviewRepo(db),
		Feedback:   sqlstore.NewFeedbackRepo(db),
		Driver:     driver,
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

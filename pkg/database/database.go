package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Database struct {
	Postgres *gorm.DB
	MongoDB  *mongo.Database
	logger   *zap.Logger
}

// NewDatabase connects to PostgreSQL (orders, admins) and MongoDB (catalog).
// Both are required.
func NewDatabase(postgresURL, mongoURL, mongoDBName string, debug bool, logger *zap.Logger) (*Database, error) {
	postgresDB, err := initPostgreSQL(postgresURL, debug)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	logger.Info("connected to PostgreSQL")

	mongoDB, err := initMongoDB(mongoURL, mongoDBName)
	if err != nil {
		if sqlDB, dbErr := postgresDB.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", mongoDBName))

	return &Database{
		Postgres: postgresDB,
		MongoDB:  mongoDB,
		logger:   logger,
	}, nil
}

func initPostgreSQL(url string, debug bool) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}
	config := &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	}

	db, err := gorm.Open(postgres.Open(url), config)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func initMongoDB(url, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return client.Database(dbName), nil
}

// AutoMigrate creates or updates the PostgreSQL tables for the given models.
func (db *Database) AutoMigrate(models ...interface{}) error {
	return db.Postgres.AutoMigrate(models...)
}

func (db *Database) Close() error {
	if sqlDB, err := db.Postgres.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			db.logger.Warn("failed to close PostgreSQL", zap.Error(err))
		}
	}

	if db.MongoDB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return db.MongoDB.Client().Disconnect(ctx)
	}

	return nil
}

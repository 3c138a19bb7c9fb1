package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kcns008/WeightCha/internal/config"
	logging "github.com/kcns008/WeightCha/internal/logging"
	"github.com/kcns008/WeightCha/internal/models"
)

var DB *gorm.DB

// Init connects to Postgres and runs migrations. TranslateError is required
// so duplicate-key violations surface as gorm.ErrDuplicatedKey, which the
// repository maps to the lifecycle conflict error.
func Init(log *zap.Logger) *gorm.DB {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port, dbConf.SSLMode)

	// Create our custom GORM logger
	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = gormlogger.Warn

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
	return DB
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and the unique index on
	// verifications.challenge_id. Custom composite indexes are handled below.
	err := DB.AutoMigrate(
		&models.Challenge{},
		&models.Verification{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	sweepIndex := `CREATE INDEX IF NOT EXISTS idx_challenges_sweep ON challenges (status, expires_at);`
	if err := DB.Exec(sweepIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on challenges table", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}

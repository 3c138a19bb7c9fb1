package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/kcns008/WeightCha/internal/analysis"
	"github.com/kcns008/WeightCha/internal/config"
	"github.com/kcns008/WeightCha/internal/database"
	logger "github.com/kcns008/WeightCha/internal/logging"
	"github.com/kcns008/WeightCha/internal/models"
	"github.com/kcns008/WeightCha/internal/repository"
	"github.com/kcns008/WeightCha/internal/router"
	"github.com/kcns008/WeightCha/internal/services"
	"github.com/kcns008/WeightCha/internal/token"
	"github.com/kcns008/WeightCha/internal/utils"
	"github.com/kcns008/WeightCha/internal/verification"
)

func main() {
	// Initialize Logger
	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Configuration
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	conf := config.Conf

	// Pick the store: Postgres when a host is configured, otherwise the
	// in-memory store for demo installs.
	var store verification.Store
	if conf.Database.Host != "" {
		store = repository.New(database.Init(log))
	} else {
		log.Warn("No database host configured, using in-memory store")
		store = verification.NewMemoryStore()
	}

	// Load the instruction catalog when one is configured.
	var catalog *models.InstructionCatalog
	if conf.Verification.InstructionsPath != "" {
		catalog, err = models.LoadInstructionCatalog(conf.Verification.InstructionsPath)
		if err != nil {
			log.Fatal("Failed to load instruction catalog", zap.Error(err))
		}
	}

	// An unset secret gets a random one; issued tokens then die with the
	// process, which is fine for demo installs but not for production.
	secret := conf.Verification.TokenSecret
	if secret == "" {
		secret, err = utils.GenerateSecureToken(32)
		if err != nil {
			log.Fatal("Failed to generate token secret", zap.Error(err))
		}
		log.Warn("No token secret configured, generated an ephemeral one")
	}

	analysisConf := analysis.DefaultConfig()
	if conf.Verification.HumanThreshold > 0 {
		analysisConf.HumanThreshold = conf.Verification.HumanThreshold
	}

	service := verification.NewService(
		store,
		analysis.NewStrategy(analysisConf),
		token.NewCodec(secret, conf.Verification.TokenTTL),
		catalog,
		log,
		verification.Config{
			ChallengeTTL:       conf.Verification.ChallengeTTL,
			VerificationTTL:    conf.Verification.VerificationTTL,
			MinSamples:         conf.Verification.MinSamples,
			MaxSamples:         conf.Verification.MaxSamples,
			MinDurationSeconds: conf.Verification.MinDurationSeconds,
			MaxDurationSeconds: conf.Verification.MaxDurationSeconds,
		},
	)

	// Background expiry sweep
	sweeper := services.NewSweeper(log, store)
	sweeper.Start(context.Background())

	// Setup router, passing the logger to it
	r := router.Setup(log, service)

	// Start the Gin server
	port := ":" + conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}

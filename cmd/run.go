package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"coinbot/bot"
	"coinbot/config"
	"coinbot/database"
	"coinbot/events"
	"coinbot/fishing"
	"coinbot/repository"
	"coinbot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting coinbot...")

	// Load configuration
	cfg := config.Get()
	game := config.LoadGame(cfg.GameConfigPath)

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Fishing buckets and bait live in memory; they reset on restart
	bucket := fishing.NewMemoryInventory()
	bait := fishing.NewMemoryBait(game.Fishing.StartingBait)

	// Initialize services
	log.Info("Initializing services...")
	progressionService := service.NewProgressionService(uowFactory, game.Leveling, nil)
	economyService := service.NewEconomyService(uowFactory, game.Economy, game.Bank, game.Steal, cfg.StartingBalance, nil)
	gamblingService := service.NewGamblingService(uowFactory, game.Gambling, cfg.StartingBalance, nil)
	shopService := service.NewShopService(uowFactory, game.Shop, cfg.StartingBalance, bait, nil)
	eventService := service.NewEventService(uowFactory, game.Events, nil)
	fishingService := service.NewFishingService(uowFactory, game.Fishing, bucket, bait, nil)
	log.Info("Services initialized successfully")

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:      cfg.DiscordToken,
		GuildID:    cfg.DiscordGuildID,
		LevelRoles: game.Leveling.RoleRewards,
	}
	discordBot, err := bot.New(botConfig, progressionService, economyService, gamblingService, shopService, eventService, fishingService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}

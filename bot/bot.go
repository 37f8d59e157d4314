package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
	"coinbot/bot/features/casino"
	"coinbot/bot/features/economy"
	eventsfeature "coinbot/bot/features/events"
	fishingfeature "coinbot/bot/features/fishing"
	"coinbot/bot/features/profile"
	"coinbot/bot/features/shop"
	"coinbot/bot/features/utility"
	"coinbot/events"
	"coinbot/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration. LevelRoles maps a level (decimal string) to
// the role granted on reaching it.
type Config struct {
	Token      string
	GuildID    string
	LevelRoles map[string]string
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	eventBus *events.Bus

	progressionService service.ProgressionService
	eventService       service.EventService
	shopService        service.ShopService

	economyFeature *economy.Feature
	casinoFeature  *casino.Feature
	shopFeature    *shop.Feature
	fishingFeature *fishingfeature.Feature
	eventsFeature  *eventsfeature.Feature
	profileFeature *profile.Feature
	utilityFeature *utility.Feature

	done chan struct{}
}

func New(
	config Config,
	progressionService service.ProgressionService,
	economyService service.EconomyService,
	gamblingService service.GamblingService,
	shopService service.ShopService,
	eventService service.EventService,
	fishingService service.FishingService,
	eventBus *events.Bus,
) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMembers

	bot := &Bot{
		config:             config,
		session:            dg,
		eventBus:           eventBus,
		progressionService: progressionService,
		eventService:       eventService,
		shopService:        shopService,
		economyFeature:     economy.New(economyService),
		casinoFeature:      casino.New(gamblingService),
		shopFeature:        shop.New(shopService),
		fishingFeature:     fishingfeature.New(fishingService),
		eventsFeature:      eventsfeature.New(eventService),
		profileFeature:     profile.New(progressionService),
		utilityFeature:     utility.New(),
		done:               make(chan struct{}),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.handleComponentInteractions)

	// Passive XP and event participation on every guild message
	dg.AddHandler(bot.handleMessageCreate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Start hourly event and shop maintenance
	go bot.runScheduler()

	return bot, nil
}

func (b *Bot) Close() error {
	close(b.done)
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance", "daily", "deposit", "withdraw", "bank-upgrade", "steal", "rich":
		b.economyFeature.HandleCommand(s, i)
	case "coinflip", "poker", "blackjack":
		b.casinoFeature.HandleCommand(s, i)
	case "shop", "buy", "use", "inventory":
		b.shopFeature.HandleCommand(s, i)
	case "fish", "bucket", "sell":
		b.fishingFeature.HandleCommand(s, i)
	case "calendar", "event":
		b.eventsFeature.HandleCommand(s, i)
	case "level", "leaderboard":
		b.profileFeature.HandleCommand(s, i)
	case "help", "clean", "colorpicker":
		b.utilityFeature.HandleCommand(s, i)
	}
}

func (b *Bot) handleComponentInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	if b.casinoFeature.HandlesComponent(customID) {
		b.casinoFeature.HandleComponent(s, i)
	}
}

// handleMessageCreate grants message XP and rolls event participation. Both are
// best effort; a failure never interrupts message flow.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	userID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		return
	}
	guildID, err := strconv.ParseInt(m.GuildID, 10, 64)
	if err != nil {
		return
	}

	ctx := context.Background()

	booster := m.Member != nil && m.Member.PremiumSince != nil
	grant, err := b.progressionService.GrantMessageXP(ctx, userID, guildID, m.Author.Username, booster)
	if err != nil {
		log.Errorf("Error granting message XP to user %d: %v", userID, err)
	} else if grant != nil && grant.LeveledUp {
		displayName := common.GetDisplayName(s, m.GuildID, m.Author.ID)
		message := fmt.Sprintf("🎉 **%s** reached **level %d**!", displayName, grant.NewLevel)
		if _, err := s.ChannelMessageSend(m.ChannelID, message); err != nil {
			log.Errorf("Error announcing level up: %v", err)
		}
		if roleID := b.config.LevelRoles[strconv.Itoa(grant.NewLevel)]; roleID != "" {
			if err := s.GuildMemberRoleAdd(m.GuildID, m.Author.ID, roleID); err != nil {
				log.Errorf("Error granting level %d role to user %d: %v", grant.NewLevel, userID, err)
			}
		}
	}

	reward, err := b.eventService.RollParticipation(ctx, userID, guildID, time.Now())
	if err != nil {
		log.Errorf("Error rolling event participation for user %d: %v", userID, err)
		return
	}
	if reward != nil {
		displayName := common.GetDisplayName(s, m.GuildID, m.Author.ID)
		message := fmt.Sprintf("🎁 **%s** earned **%s coins** for joining in on **%s**!",
			displayName, common.FormatCoins(reward.Coins), reward.EventName)
		if _, err := s.ChannelMessageSend(m.ChannelID, message); err != nil {
			log.Errorf("Error announcing event reward: %v", err)
		}
	}
}

// runScheduler starts due seasonal events, ends expired ones, and keeps the
// shop rotation fresh. Runs once at startup and then hourly.
func (b *Bot) runScheduler() {
	guildID, err := strconv.ParseInt(b.config.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Scheduler disabled: bad guild id %q: %v", b.config.GuildID, err)
		return
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	b.tick(guildID)
	for {
		select {
		case <-ticker.C:
			b.tick(guildID)
		case <-b.done:
			return
		}
	}
}

func (b *Bot) tick(guildID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	if err := b.eventService.Tick(ctx, guildID, now); err != nil {
		log.Errorf("Error ticking events for guild %d: %v", guildID, err)
	}
	if _, err := b.shopService.GetShop(ctx, guildID, now); err != nil {
		log.Errorf("Error refreshing shop for guild %d: %v", guildID, err)
	}
}

package economy

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
)

// parseIDs converts the interaction's Discord snowflakes to int64.
func parseIDs(i *discordgo.InteractionCreate) (userID, guildID int64, err error) {
	userID, err = strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad user id %q: %w", i.Member.User.ID, err)
	}
	guildID, err = strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad guild id %q: %w", i.GuildID, err)
	}
	return userID, guildID, nil
}

func respondServiceError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	if msg, ok := common.UserMessage(err); ok {
		common.RespondWithError(s, i, msg)
		return
	}
	log.Errorf("Unexpected error handling %s: %v", i.ApplicationCommandData().Name, err)
	common.RespondWithError(s, i, "Something went wrong. Please try again.")
}

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	rec, err := f.economyService.GetOrCreateAccount(ctx, userID, guildID, i.Member.User.Username)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("💰 %s's balance", displayName),
		Color: 0xF1C40F,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wallet", Value: common.FormatCoins(rec.Wallet) + " coins", Inline: true},
			{Name: "Bank", Value: fmt.Sprintf("%s coins (level %d)", common.FormatCoins(rec.Bank), rec.BankLevel), Inline: true},
			{Name: "Total", Value: common.FormatCoins(rec.Total()) + " coins", Inline: true},
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := f.economyService.GetOrCreateAccount(ctx, userID, guildID, i.Member.User.Username); err != nil {
		respondServiceError(s, i, err)
		return
	}

	result, err := f.economyService.ClaimDaily(ctx, userID, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	message := fmt.Sprintf("🎁 You claimed your daily **%s coins** (streak: **%d**). New balance: **%s coins**",
		common.FormatCoins(result.Reward), result.Streak, common.FormatCoins(result.NewBalance))
	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to daily command: %v", err)
	}
}

// amountOption reads the required integer "amount" option.
func amountOption(i *discordgo.InteractionCreate) int64 {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "amount" {
			return opt.IntValue()
		}
	}
	return 0
}

func (f *Feature) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	amount := amountOption(i)
	if amount <= 0 {
		common.RespondWithError(s, i, "Amount must be positive.")
		return
	}

	result, err := f.economyService.Deposit(ctx, userID, guildID, amount)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	message := fmt.Sprintf("🏦 Deposited **%s coins**. Bank: **%s / %s**, wallet: **%s coins**",
		common.FormatCoins(result.Deposited), common.FormatCoins(result.NewBank),
		common.FormatCoins(result.BankLimit), common.FormatCoins(result.NewWallet))
	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to deposit command: %v", err)
	}
}

func (f *Feature) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	amount := amountOption(i)
	if amount <= 0 {
		common.RespondWithError(s, i, "Amount must be positive.")
		return
	}

	result, err := f.economyService.Withdraw(ctx, userID, guildID, amount)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	message := fmt.Sprintf("🏦 Withdrew **%s coins**. Wallet: **%s coins**, bank: **%s coins**",
		common.FormatCoins(result.Withdrawn), common.FormatCoins(result.NewWallet), common.FormatCoins(result.NewBank))
	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to withdraw command: %v", err)
	}
}

func (f *Feature) handleBankUpgrade(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.economyService.UpgradeBank(ctx, userID, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	message := fmt.Sprintf("🏦 Bank upgraded to **level %d** for **%s coins**. New capacity: **%s coins**",
		result.NewLevel, common.FormatCoins(result.Cost), common.FormatCoins(result.NewLimit))
	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to bank-upgrade command: %v", err)
	}
}

func (f *Feature) handleSteal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// The target option is optional; zero means a random victim.
	var targetID int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "target" {
			target := opt.UserValue(s)
			if target != nil {
				targetID, err = strconv.ParseInt(target.ID, 10, 64)
				if err != nil {
					common.RespondWithError(s, i, "Unable to process request. Please try again.")
					return
				}
			}
		}
	}

	if targetID == userID {
		common.RespondWithError(s, i, "You cannot steal from yourself.")
		return
	}

	if _, err := f.economyService.GetOrCreateAccount(ctx, userID, guildID, i.Member.User.Username); err != nil {
		respondServiceError(s, i, err)
		return
	}

	result, err := f.economyService.Steal(ctx, userID, guildID, targetID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	targetName := common.GetDisplayName(s, i.GuildID, strconv.FormatInt(result.TargetID, 10))
	var message string
	if result.Amount > 0 {
		message = fmt.Sprintf("🦹 You stole **%s coins** from **%s**! New balance: **%s coins**",
			common.FormatCoins(result.Amount), targetName, common.FormatCoins(result.StealerNewBalance))
	} else {
		message = fmt.Sprintf("🚨 **%s** caught you red-handed! You got away with nothing.", targetName)
	}
	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to steal command: %v", err)
	}
}

func (f *Feature) handleRich(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	_, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	entries, err := f.economyService.MoneyLeaderboard(ctx, guildID, 10)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}
	if len(entries) == 0 {
		common.RespondWithError(s, i, "Nobody has any coins yet.")
		return
	}

	var sb strings.Builder
	for _, entry := range entries {
		name := common.GetDisplayName(s, i.GuildID, strconv.FormatInt(entry.UserID, 10))
		fmt.Fprintf(&sb, "**#%d** %s — **%s coins** (wallet %s, bank %s)\n",
			entry.Rank, name, common.FormatCoins(entry.Total),
			common.FormatCoins(entry.Wallet), common.FormatCoins(entry.Bank))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "💎 Richest members",
		Description: sb.String(),
		Color:       0xF1C40F,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to rich command: %v", err)
	}
}

package shop

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
)

var rarityEmoji = map[string]string{
	"common":    "⚪",
	"uncommon":  "🟢",
	"rare":      "🔵",
	"epic":      "🟣",
	"legendary": "🟡",
}

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
	log.Errorf("Unexpected shop error: %v", err)
	common.RespondWithError(s, i, "Something went wrong. Please try again.")
}

func itemOption(i *discordgo.InteractionCreate) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "item" {
			return opt.StringValue()
		}
	}
	return ""
}

func (f *Feature) handleShop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	_, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	items, err := f.shopService.GetShop(ctx, guildID, time.Now())
	if err != nil {
		respondServiceError(s, i, err)
		return
	}
	if len(items) == 0 {
		common.RespondWithError(s, i, "The shop is empty right now. Check back later.")
		return
	}

	var sb strings.Builder
	for _, item := range items {
		marker := rarityEmoji[item.Rarity]
		if marker == "" {
			marker = "⚪"
		}
		if item.IsEventItem {
			marker += " 🎉"
		}
		fmt.Fprintf(&sb, "%s **%s** — **%s coins**\n`%s` · %s\n\n",
			marker, item.Name, common.FormatCoins(item.Price), item.ItemID, item.Description)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🛒 Today's shop",
		Description: sb.String(),
		Color:       0x3498DB,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Buy with /buy item:<id>. The stock rotates daily.",
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to shop command: %v", err)
	}
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	itemID := itemOption(i)
	if itemID == "" {
		common.RespondWithError(s, i, "Pick an item from /shop first.")
		return
	}

	result, err := f.shopService.Purchase(ctx, userID, guildID, itemID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	message := fmt.Sprintf("🛍️ You bought **%s** for **%s coins**. New balance: **%s coins**",
		result.Item.Name, common.FormatCoins(result.Item.Price), common.FormatCoins(result.NewBalance))
	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to buy command: %v", err)
	}
}

func (f *Feature) handleUse(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	itemID := itemOption(i)
	if itemID == "" {
		common.RespondWithError(s, i, "Pick an item from /inventory first.")
		return
	}

	result, err := f.shopService.UseItem(ctx, userID, guildID, itemID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	if !result.Consumed {
		common.RespondWithError(s, i, "That item works on its own while it's in your inventory.")
		return
	}

	var message string
	if result.CoinsGained > 0 {
		message = fmt.Sprintf("✨ You used **%s** and gained **%s coins**!", itemID, common.FormatCoins(result.CoinsGained))
	} else {
		message = fmt.Sprintf("✨ You used **%s**: %s", itemID, strings.Join(result.Applied, ", "))
	}
	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to use command: %v", err)
	}
}

func (f *Feature) handleInventory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	items, err := f.shopService.Inventory(ctx, userID, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}
	if len(items) == 0 {
		common.RespondWithError(s, i, "Your inventory is empty. Visit /shop to get started.")
		return
	}

	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "**%s** ×%d · `%s`\n", item.Name, item.Quantity, item.ItemID)
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎒 %s's inventory", displayName),
		Description: sb.String(),
		Color:       0x3498DB,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to inventory command: %v", err)
	}
}

package fishing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
)

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
	log.Errorf("Unexpected fishing error: %v", err)
	common.RespondWithError(s, i, "Something went wrong. Please try again.")
}

func (f *Feature) handleFish(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.fishingService.Cast(ctx, userID, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	message := fmt.Sprintf("🎣 You caught a %s **%s** (%s) worth **%s coins**! Bait left: **%d**",
		result.Fish.Emoji, result.Fish.Name, result.Fish.Rarity,
		common.FormatCoins(result.Value), result.BaitRemaining)
	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to fish command: %v", err)
	}
}

func (f *Feature) handleBucket(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	catches, err := f.fishingService.Bucket(ctx, userID, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	bait, err := f.fishingService.BaitCount(ctx, userID, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	if len(catches) == 0 {
		common.RespondWithError(s, i, fmt.Sprintf("Your bucket is empty. You have **%d** bait. Go /fish!", bait))
		return
	}

	var total int64
	var sb strings.Builder
	for _, c := range catches {
		total += c.Value
		fmt.Fprintf(&sb, "%s **%s** (%s) — %s coins\n", c.Fish.Emoji, c.Fish.Name, c.Fish.Rarity, common.FormatCoins(c.Value))
	}
	fmt.Fprintf(&sb, "\nTotal value: **%s coins** · Bait left: **%d**", common.FormatCoins(total), bait)

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🪣 %s's bucket", displayName),
		Description: sb.String(),
		Color:       0x1ABC9C,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to bucket command: %v", err)
	}
}

func (f *Feature) handleSell(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.fishingService.SellAll(ctx, userID, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	message := fmt.Sprintf("🐟 Sold **%d fish** for **%s coins**. New balance: **%s coins**",
		result.Count, common.FormatCoins(result.Total), common.FormatCoins(result.NewBalance))
	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to sell command: %v", err)
	}
}

package profile

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
	log.Errorf("Unexpected profile error: %v", err)
	common.RespondWithError(s, i, "Something went wrong. Please try again.")
}

// progressBar renders percent as a ten-segment bar.
func progressBar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled)
}

func (f *Feature) handleLevel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// An optional user option shows somebody else's profile.
	targetUserID := userID
	targetDiscordID := i.Member.User.ID
	username := i.Member.User.Username
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			target := opt.UserValue(s)
			if target != nil {
				targetDiscordID = target.ID
				username = target.Username
				targetUserID, err = strconv.ParseInt(target.ID, 10, 64)
				if err != nil {
					common.RespondWithError(s, i, "Unable to process request. Please try again.")
					return
				}
			}
		}
	}

	rec, rank, err := f.progressionService.GetProfile(ctx, targetUserID, guildID, username)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	curve := f.progressionService.Curve()
	percent := curve.Progress(rec.XP)
	toNext := curve.XPToNextLevel(rec.XP)

	displayName := common.GetDisplayName(s, i.GuildID, targetDiscordID)
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("⭐ %s", displayName),
		Color: 0x9B59B6,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Level", Value: strconv.Itoa(rec.Level), Inline: true},
			{Name: "XP", Value: common.FormatCoins(rec.XP), Inline: true},
			{Name: "Rank", Value: fmt.Sprintf("#%d", rank), Inline: true},
			{
				Name:  fmt.Sprintf("Progress to level %d", rec.Level+1),
				Value: fmt.Sprintf("%s %d%% (%s XP to go)", progressBar(percent), percent, common.FormatCoins(toNext)),
			},
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to level command: %v", err)
	}
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	_, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	entries, err := f.progressionService.Leaderboard(ctx, guildID, 10)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}
	if len(entries) == 0 {
		common.RespondWithError(s, i, "Nobody has earned XP yet. Start chatting!")
		return
	}

	var sb strings.Builder
	for _, entry := range entries {
		name := common.GetDisplayName(s, i.GuildID, strconv.FormatInt(entry.UserID, 10))
		fmt.Fprintf(&sb, "**#%d** %s — level **%d** (%s XP)\n",
			entry.Rank, name, entry.Level, common.FormatCoins(entry.XP))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏆 XP leaderboard",
		Description: sb.String(),
		Color:       0x9B59B6,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}

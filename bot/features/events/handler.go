package events

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

func parseGuildID(i *discordgo.InteractionCreate) (int64, error) {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad guild id %q: %w", i.GuildID, err)
	}
	return guildID, nil
}

func respondServiceError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	if msg, ok := common.UserMessage(err); ok {
		common.RespondWithError(s, i, msg)
		return
	}
	log.Errorf("Unexpected event error: %v", err)
	common.RespondWithError(s, i, "Something went wrong. Please try again.")
}

func (f *Feature) handleCalendar(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := parseGuildID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	entries, err := f.eventService.Calendar(ctx, guildID, time.Now())
	if err != nil {
		respondServiceError(s, i, err)
		return
	}
	if len(entries) == 0 {
		common.RespondWithError(s, i, "No seasonal events are configured.")
		return
	}

	var sb strings.Builder
	for _, entry := range entries {
		status := ""
		if entry.Active {
			status = " · **LIVE NOW**"
		}
		fmt.Fprintf(&sb, "**%s** (`%s`)\n%s to %s%s\n\n",
			entry.EventName, entry.EventType,
			common.FormatDiscordTimestamp(entry.Start, "D"),
			common.FormatDiscordTimestamp(entry.End, "D"),
			status)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📅 Seasonal events",
		Description: sb.String(),
		Color:       0xE67E22,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Chat during a live event for a chance at bonus rewards.",
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to calendar command: %v", err)
	}
}

func (f *Feature) handleEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Missing subcommand.")
		return
	}

	sub := options[0]
	var eventType string
	for _, opt := range sub.Options {
		if opt.Name == "type" {
			eventType = opt.StringValue()
		}
	}
	if eventType == "" {
		common.RespondWithError(s, i, "Missing event type.")
		return
	}

	switch sub.Name {
	case "start":
		f.handleEventStart(s, i, eventType)
	case "end":
		f.handleEventEnd(s, i, eventType)
	}
}

func (f *Feature) handleEventStart(s *discordgo.Session, i *discordgo.InteractionCreate, eventType string) {
	ctx := context.Background()

	guildID, err := parseGuildID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	event, err := f.eventService.StartEvent(ctx, guildID, eventType, time.Now())
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	message := fmt.Sprintf("🎉 **%s** has begun! It runs until %s.",
		event.EventName, common.FormatDiscordTimestamp(event.EndDate, "F"))
	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to event start: %v", err)
	}
}

func (f *Feature) handleEventEnd(s *discordgo.Session, i *discordgo.InteractionCreate, eventType string) {
	ctx := context.Background()

	guildID, err := parseGuildID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	event, err := f.eventService.EndEvent(ctx, guildID, eventType, time.Now())
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	message := fmt.Sprintf("🏁 **%s** has ended. Thanks for playing!", event.EventName)
	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to event end: %v", err)
	}
}

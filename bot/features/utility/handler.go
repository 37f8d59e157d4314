package utility

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
)

// colorRolePrefix marks the roles this bot manages. Only one color role per
// member is kept at a time.
const colorRolePrefix = "color-"

var palette = map[string]int{
	"red":    0xE74C3C,
	"orange": 0xE67E22,
	"yellow": 0xF1C40F,
	"green":  0x2ECC71,
	"blue":   0x3498DB,
	"purple": 0x9B59B6,
	"pink":   0xFD79A8,
	"teal":   0x1ABC9C,
}

// PaletteChoices lists the selectable colors for command registration.
func PaletteChoices() []*discordgo.ApplicationCommandOptionChoice {
	names := []string{"red", "orange", "yellow", "green", "blue", "purple", "pink", "teal"}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(names))
	for idx, name := range names {
		choices[idx] = &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name}
	}
	return choices
}

func (f *Feature) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "📖 Commands",
		Color: 0x95A5A6,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Economy",
				Value: "`/balance` wallet and bank · `/daily` daily coins · `/deposit` `/withdraw` move coins · " +
					"`/bank-upgrade` bigger vault · `/steal` rob a wallet · `/rich` wealth leaderboard",
			},
			{
				Name:  "Casino",
				Value: "`/coinflip` call heads or tails · `/poker` five card draw · `/blackjack` beat the dealer",
			},
			{
				Name:  "Shop",
				Value: "`/shop` today's stock · `/buy` purchase · `/use` consume an item · `/inventory` what you own",
			},
			{
				Name:  "Fishing",
				Value: "`/fish` cast a line · `/bucket` unsold catches · `/sell` cash them in",
			},
			{
				Name:  "Leveling",
				Value: "`/level` XP profile · `/leaderboard` top chatters",
			},
			{
				Name:  "Events & misc",
				Value: "`/calendar` seasonal events · `/colorpicker` name color · `/help` this message",
			},
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to help command: %v", err)
	}
}

func (f *Feature) handleClean(s *discordgo.Session, i *discordgo.InteractionCreate) {
	count := int64(10)
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "count" {
			count = opt.IntValue()
		}
	}
	if count < 1 {
		count = 1
	}
	if count > 100 {
		count = 100
	}

	messages, err := s.ChannelMessages(i.ChannelID, int(count), "", "", "")
	if err != nil {
		log.Errorf("Error listing messages for clean: %v", err)
		common.RespondWithError(s, i, "Unable to fetch messages. Please try again.")
		return
	}
	if len(messages) == 0 {
		common.RespondWithError(s, i, "Nothing to delete here.")
		return
	}

	ids := make([]string, len(messages))
	for idx, m := range messages {
		ids[idx] = m.ID
	}

	if err := s.ChannelMessagesBulkDelete(i.ChannelID, ids); err != nil {
		log.Errorf("Error bulk deleting messages: %v", err)
		common.RespondWithError(s, i, "Unable to delete messages. Bulk deletion only covers the last 14 days.")
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Deleted **%d** messages.", len(ids)), true); err != nil {
		log.Errorf("Error responding to clean command: %v", err)
	}
}

func (f *Feature) handleColorpicker(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Missing subcommand.")
		return
	}

	sub := options[0]
	switch sub.Name {
	case "select":
		var color string
		for _, opt := range sub.Options {
			if opt.Name == "color" {
				color = opt.StringValue()
			}
		}
		f.selectColor(s, i, color)
	case "current":
		f.currentColor(s, i)
	case "remove":
		f.removeColor(s, i)
	}
}

// colorRole finds the managed role for the color, creating it when absent.
func colorRole(s *discordgo.Session, guildID, color string) (*discordgo.Role, error) {
	value, ok := palette[color]
	if !ok {
		return nil, fmt.Errorf("unknown color %q", color)
	}
	name := colorRolePrefix + color

	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	for _, role := range roles {
		if role.Name == name {
			return role, nil
		}
	}

	hoist := false
	mentionable := false
	return s.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        name,
		Color:       &value,
		Hoist:       &hoist,
		Mentionable: &mentionable,
	})
}

// memberColorRoles returns the managed color roles the member currently holds.
func memberColorRoles(s *discordgo.Session, guildID, userID string) ([]*discordgo.Role, error) {
	member, err := s.GuildMember(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	byID := make(map[string]*discordgo.Role, len(roles))
	for _, role := range roles {
		byID[role.ID] = role
	}

	var held []*discordgo.Role
	for _, roleID := range member.Roles {
		role := byID[roleID]
		if role != nil && len(role.Name) > len(colorRolePrefix) && role.Name[:len(colorRolePrefix)] == colorRolePrefix {
			held = append(held, role)
		}
	}
	return held, nil
}

func (f *Feature) selectColor(s *discordgo.Session, i *discordgo.InteractionCreate, color string) {
	role, err := colorRole(s, i.GuildID, color)
	if err != nil {
		log.Errorf("Error resolving color role %s: %v", color, err)
		common.RespondWithError(s, i, "Unable to set that color. Please try again.")
		return
	}

	held, err := memberColorRoles(s, i.GuildID, i.Member.User.ID)
	if err != nil {
		log.Errorf("Error listing color roles: %v", err)
		common.RespondWithError(s, i, "Unable to set that color. Please try again.")
		return
	}
	for _, old := range held {
		if old.ID == role.ID {
			continue
		}
		if err := s.GuildMemberRoleRemove(i.GuildID, i.Member.User.ID, old.ID); err != nil {
			log.Errorf("Error removing color role %s: %v", old.Name, err)
		}
	}

	if err := s.GuildMemberRoleAdd(i.GuildID, i.Member.User.ID, role.ID); err != nil {
		log.Errorf("Error adding color role %s: %v", role.Name, err)
		common.RespondWithError(s, i, "Unable to set that color. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Your name color is now **%s**.", color), true); err != nil {
		log.Errorf("Error responding to colorpicker select: %v", err)
	}
}

func (f *Feature) currentColor(s *discordgo.Session, i *discordgo.InteractionCreate) {
	held, err := memberColorRoles(s, i.GuildID, i.Member.User.ID)
	if err != nil {
		log.Errorf("Error listing color roles: %v", err)
		common.RespondWithError(s, i, "Unable to check your color. Please try again.")
		return
	}
	if len(held) == 0 {
		common.RespondWithError(s, i, "You have no name color set. Use `/colorpicker select`.")
		return
	}

	color := held[0].Name[len(colorRolePrefix):]
	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Your current name color is **%s**.", color), true); err != nil {
		log.Errorf("Error responding to colorpicker current: %v", err)
	}
}

func (f *Feature) removeColor(s *discordgo.Session, i *discordgo.InteractionCreate) {
	held, err := memberColorRoles(s, i.GuildID, i.Member.User.ID)
	if err != nil {
		log.Errorf("Error listing color roles: %v", err)
		common.RespondWithError(s, i, "Unable to remove your color. Please try again.")
		return
	}
	if len(held) == 0 {
		common.RespondWithError(s, i, "You have no name color to remove.")
		return
	}

	for _, role := range held {
		if err := s.GuildMemberRoleRemove(i.GuildID, i.Member.User.ID, role.ID); err != nil {
			log.Errorf("Error removing color role %s: %v", role.Name, err)
			common.RespondWithError(s, i, "Unable to remove your color. Please try again.")
			return
		}
	}

	if err := common.RespondWithSuccess(s, i, "Name color removed.", true); err != nil {
		log.Errorf("Error responding to colorpicker remove: %v", err)
	}
}

package casino

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
	"coinbot/games"
	"coinbot/service"
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
	log.Errorf("Unexpected casino error: %v", err)
	common.RespondWithError(s, i, "Something went wrong. Please try again.")
}

func commandOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		byName[opt.Name] = opt
	}
	return byName
}

func (f *Feature) handleCoinflip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	opts := commandOptions(i)
	bet := opts["bet"].IntValue()
	call := games.Heads
	if opt, ok := opts["call"]; ok && games.CoinSide(opt.StringValue()) == games.Tails {
		call = games.Tails
	}

	result, err := f.gamblingService.Coinflip(ctx, userID, guildID, bet, call)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	header := fmt.Sprintf("🪙 You called **%s**. The coin landed on **%s**.\n", call, result.Side)
	message := header + common.FormatBetResult(result.Won, result.Bet, result.Payout-result.Bet, result.NewBalance)
	if err := common.RespondWithContent(s, i, message); err != nil {
		log.Errorf("Error responding to coinflip command: %v", err)
	}
}

func (f *Feature) handlePoker(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	bet := commandOptions(i)["bet"].IntValue()

	result, err := f.gamblingService.Poker(ctx, userID, guildID, bet)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🃏 Five Card Draw",
		Color: 0x9B59B6,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your hand", Value: common.FormatHand(result.Hand)},
			{Name: "Rank", Value: result.Rank.String(), Inline: true},
			{Name: "Bet", Value: common.FormatCoins(result.Bet) + " coins", Inline: true},
		},
	}
	if result.Payout > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Payout", Value: common.FormatCoins(result.Payout) + " coins", Inline: true,
		})
		embed.Description = fmt.Sprintf("🎉 **You won %s coins!** New balance: **%s coins**",
			common.FormatCoins(result.Payout-result.Bet), common.FormatCoins(result.NewBalance))
	} else {
		embed.Description = fmt.Sprintf("😔 No payout this time. New balance: **%s coins**",
			common.FormatCoins(result.NewBalance))
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to poker command: %v", err)
	}
}

func blackjackButtons(disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Hit",
					Style:    discordgo.PrimaryButton,
					CustomID: "blackjack_hit",
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "Stand",
					Style:    discordgo.SecondaryButton,
					CustomID: "blackjack_stand",
					Disabled: disabled,
				},
			},
		},
	}
}

func blackjackEmbed(view *service.BlackjackView, displayName string) *discordgo.MessageEmbed {
	dealer := common.FormatHand(view.DealerHand)
	dealerScore := strconv.Itoa(view.DealerScore)
	if !view.Done {
		dealer += " 🂠"
		dealerScore = "?"
	}

	embed := &discordgo.MessageEmbed{
		Title: "🂡 Blackjack",
		Color: 0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: fmt.Sprintf("%s (%d)", displayName, view.PlayerScore), Value: common.FormatHand(view.PlayerHand)},
			{Name: fmt.Sprintf("Dealer (%s)", dealerScore), Value: dealer},
			{Name: "Bet", Value: common.FormatCoins(view.Bet) + " coins", Inline: true},
		},
	}

	if view.Done {
		switch view.Outcome {
		case games.OutcomePlayerBlackjack:
			embed.Description = fmt.Sprintf("🎰 **Blackjack!** You won **%s coins**. New balance: **%s coins**",
				common.FormatCoins(view.Payout-view.Bet), common.FormatCoins(view.NewBalance))
		case games.OutcomePlayerWin:
			embed.Description = fmt.Sprintf("🎉 **You won %s coins!** New balance: **%s coins**",
				common.FormatCoins(view.Payout-view.Bet), common.FormatCoins(view.NewBalance))
		case games.OutcomePush:
			embed.Description = fmt.Sprintf("🤝 **Push.** Your bet was returned. New balance: **%s coins**",
				common.FormatCoins(view.NewBalance))
		default:
			embed.Description = fmt.Sprintf("😔 **You lost %s coins.** New balance: **%s coins**",
				common.FormatCoins(view.Bet), common.FormatCoins(view.NewBalance))
		}
	} else {
		embed.Description = "Hit to draw another card, or stand to let the dealer play."
	}

	return embed
}

func (f *Feature) handleBlackjack(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	bet := commandOptions(i)["bet"].IntValue()

	view, err := f.gamblingService.StartBlackjack(ctx, userID, guildID, bet)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := blackjackEmbed(view, displayName)
	components := blackjackButtons(view.Done)
	if err := common.RespondWithEmbed(s, i, embed, components, false); err != nil {
		log.Errorf("Error responding to blackjack command: %v", err)
	}
}

func (f *Feature) handleBlackjackHit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	view, err := f.gamblingService.HitBlackjack(ctx, userID, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := blackjackEmbed(view, displayName)
	components := blackjackButtons(view.Done)
	if err := common.UpdateMessage(s, i, embed, components); err != nil {
		log.Errorf("Error updating blackjack message: %v", err)
	}
}

func (f *Feature) handleBlackjackStand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, guildID, err := parseIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	view, err := f.gamblingService.StandBlackjack(ctx, userID, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := blackjackEmbed(view, displayName)
	components := blackjackButtons(true)
	if err := common.UpdateMessage(s, i, embed, components); err != nil {
		log.Errorf("Error updating blackjack message: %v", err)
	}
}

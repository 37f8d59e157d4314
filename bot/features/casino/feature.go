package casino

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"coinbot/service"
)

// Feature handles the coinflip, poker, and blackjack commands.
type Feature struct {
	gamblingService service.GamblingService
}

func New(gamblingService service.GamblingService) *Feature {
	return &Feature{
		gamblingService: gamblingService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "coinflip":
		f.handleCoinflip(s, i)
	case "poker":
		f.handlePoker(s, i)
	case "blackjack":
		f.handleBlackjack(s, i)
	}
}

// HandlesComponent reports whether a component custom ID belongs to this feature.
func (f *Feature) HandlesComponent(customID string) bool {
	return strings.HasPrefix(customID, "blackjack_")
}

func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.MessageComponentData().CustomID {
	case "blackjack_hit":
		f.handleBlackjackHit(s, i)
	case "blackjack_stand":
		f.handleBlackjackStand(s, i)
	}
}

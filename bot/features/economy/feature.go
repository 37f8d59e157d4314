package economy

import (
	"github.com/bwmarrin/discordgo"

	"coinbot/service"
)

// Feature handles the wallet, bank, daily, and steal commands.
type Feature struct {
	economyService service.EconomyService
}

func New(economyService service.EconomyService) *Feature {
	return &Feature{
		economyService: economyService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "balance":
		f.handleBalance(s, i)
	case "daily":
		f.handleDaily(s, i)
	case "deposit":
		f.handleDeposit(s, i)
	case "withdraw":
		f.handleWithdraw(s, i)
	case "bank-upgrade":
		f.handleBankUpgrade(s, i)
	case "steal":
		f.handleSteal(s, i)
	case "rich":
		f.handleRich(s, i)
	}
}

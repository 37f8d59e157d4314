package shop

import (
	"github.com/bwmarrin/discordgo"

	"coinbot/service"
)

// Feature handles the shop, buy, use, and inventory commands.
type Feature struct {
	shopService service.ShopService
}

func New(shopService service.ShopService) *Feature {
	return &Feature{
		shopService: shopService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "shop":
		f.handleShop(s, i)
	case "buy":
		f.handleBuy(s, i)
	case "use":
		f.handleUse(s, i)
	case "inventory":
		f.handleInventory(s, i)
	}
}

package fishing

import (
	"github.com/bwmarrin/discordgo"

	"coinbot/service"
)

// Feature handles the fish, bucket, and sell commands.
type Feature struct {
	fishingService service.FishingService
}

func New(fishingService service.FishingService) *Feature {
	return &Feature{
		fishingService: fishingService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "fish":
		f.handleFish(s, i)
	case "bucket":
		f.handleBucket(s, i)
	case "sell":
		f.handleSell(s, i)
	}
}

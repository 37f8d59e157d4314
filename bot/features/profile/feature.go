package profile

import (
	"github.com/bwmarrin/discordgo"

	"coinbot/service"
)

// Feature handles the level and leaderboard commands.
type Feature struct {
	progressionService service.ProgressionService
}

func New(progressionService service.ProgressionService) *Feature {
	return &Feature{
		progressionService: progressionService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "level":
		f.handleLevel(s, i)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	}
}

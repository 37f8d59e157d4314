package events

import (
	"github.com/bwmarrin/discordgo"

	"coinbot/service"
)

// Feature handles the calendar command and the admin event subcommands.
type Feature struct {
	eventService service.EventService
}

func New(eventService service.EventService) *Feature {
	return &Feature{
		eventService: eventService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "calendar":
		f.handleCalendar(s, i)
	case "event":
		f.handleEvent(s, i)
	}
}

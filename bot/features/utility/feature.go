package utility

import (
	"github.com/bwmarrin/discordgo"
)

// Feature handles the help, clean, and colorpicker commands. It talks to
// Discord only; nothing here touches the ledger.
type Feature struct{}

func New() *Feature {
	return &Feature{}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "help":
		f.handleHelp(s, i)
	case "clean":
		f.handleClean(s, i)
	case "colorpicker":
		f.handleColorpicker(s, i)
	}
}

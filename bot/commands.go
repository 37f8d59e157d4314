package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"coinbot/bot/features/utility"
)

var (
	minOne         = float64(1)
	manageMessages = int64(discordgo.PermissionManageMessages)
	manageGuild    = int64(discordgo.PermissionManageGuild)
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your wallet and bank balance",
		},
		{
			Name:        "daily",
			Description: "Claim your daily coins and keep your streak alive",
		},
		{
			Name:        "deposit",
			Description: "Move coins from your wallet into your bank",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of coins to deposit",
					Required:    true,
					MinValue:    &minOne,
				},
			},
		},
		{
			Name:        "withdraw",
			Description: "Move coins from your bank into your wallet",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of coins to withdraw",
					Required:    true,
					MinValue:    &minOne,
				},
			},
		},
		{
			Name:        "bank-upgrade",
			Description: "Buy the next bank level to raise your vault limit",
		},
		{
			Name:        "steal",
			Description: "Try to steal coins from another member's wallet",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "target",
					Description: "Who to rob (random victim when omitted)",
					Required:    false,
				},
			},
		},
		{
			Name:        "rich",
			Description: "Show the richest members of the server",
		},
		{
			Name:        "coinflip",
			Description: "Bet coins on a coin flip",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Amount of coins to bet",
					Required:    true,
					MinValue:    &minOne,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "call",
					Description: "Which side you call",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Heads", Value: "heads"},
						{Name: "Tails", Value: "tails"},
					},
				},
			},
		},
		{
			Name:        "poker",
			Description: "Bet coins on a five card draw",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Amount of coins to bet",
					Required:    true,
					MinValue:    &minOne,
				},
			},
		},
		{
			Name:        "blackjack",
			Description: "Play a hand of blackjack against the dealer",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Amount of coins to bet",
					Required:    true,
					MinValue:    &minOne,
				},
			},
		},
		{
			Name:        "shop",
			Description: "Browse today's shop rotation",
		},
		{
			Name:        "buy",
			Description: "Buy an item from today's shop",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "item",
					Description: "Item ID from /shop",
					Required:    true,
				},
			},
		},
		{
			Name:        "use",
			Description: "Use a consumable item from your inventory",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "item",
					Description: "Item ID from /inventory",
					Required:    true,
				},
			},
		},
		{
			Name:        "inventory",
			Description: "Show the items you own",
		},
		{
			Name:        "fish",
			Description: "Cast your line (uses one bait)",
		},
		{
			Name:        "bucket",
			Description: "Show your unsold catches",
		},
		{
			Name:        "sell",
			Description: "Sell every fish in your bucket",
		},
		{
			Name:        "level",
			Description: "Show a member's level and XP progress",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Whose profile to show (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the server's XP leaderboard",
		},
		{
			Name:        "calendar",
			Description: "Show this year's seasonal events",
		},
		{
			Name:                     "event",
			Description:              "Manage seasonal events (admin only)",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Force-start a seasonal event",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "type",
							Description: "Event type from /calendar",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "end",
					Description: "Force-end a running seasonal event",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "type",
							Description: "Event type from /calendar",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "help",
			Description: "Show every command and what it does",
		},
		{
			Name:                     "clean",
			Description:              "Bulk delete recent messages in this channel (admin only)",
			DefaultMemberPermissions: &manageMessages,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "count",
					Description: "How many messages to delete (1-100, default 10)",
					Required:    false,
					MinValue:    &minOne,
				},
			},
		},
		{
			Name:        "colorpicker",
			Description: "Pick a name color",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "select",
					Description: "Set your name color",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "color",
							Description: "The color to use",
							Required:    true,
							Choices:     utility.PaletteChoices(),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "current",
					Description: "Show your current name color",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove your name color",
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

package common

import (
	"errors"
	"fmt"

	"coinbot/service"
)

// UserMessage translates a known service error into a player-facing message.
// Returns false for unexpected errors, which should be logged and masked.
func UserMessage(err error) (string, bool) {
	var cooldownErr *service.CooldownError
	if errors.As(err, &cooldownErr) {
		return fmt.Sprintf("You need to wait **%s** before doing that again.", FormatDuration(cooldownErr.Remaining)), true
	}

	var fundsErr *service.InsufficientFundsError
	if errors.As(err, &fundsErr) {
		return fmt.Sprintf("Not enough coins: you have **%s**, you need **%s**.", FormatCoins(fundsErr.Have), FormatCoins(fundsErr.Need)), true
	}

	var betErr *service.BetRangeError
	if errors.As(err, &betErr) {
		return fmt.Sprintf("Bets must be between **%s** and **%s** coins.", FormatCoins(betErr.Min), FormatCoins(betErr.Max)), true
	}

	switch {
	case errors.Is(err, service.ErrFeatureDisabled):
		return "That feature is disabled on this server.", true
	case errors.Is(err, service.ErrBankLimitReached):
		return "Your bank is full. Upgrade it to hold more coins.", true
	case errors.Is(err, service.ErrMaxBankLevel):
		return "Your bank is already at the maximum level.", true
	case errors.Is(err, service.ErrNoStealTarget):
		return "Nobody around is worth robbing right now.", true
	case errors.Is(err, service.ErrItemNotFound):
		return "That item is not in today's shop.", true
	case errors.Is(err, service.ErrItemNotOwned):
		return "You don't own that item.", true
	case errors.Is(err, service.ErrNoBait):
		return "You're out of bait! Buy more from the shop.", true
	case errors.Is(err, service.ErrNoFishToSell):
		return "Your bucket is empty.", true
	case errors.Is(err, service.ErrSessionExists):
		return "You already have a blackjack hand in progress.", true
	case errors.Is(err, service.ErrSessionNotFound):
		return "You have no blackjack hand in progress.", true
	case errors.Is(err, service.ErrEventNotFound):
		return "No such event.", true
	case errors.Is(err, service.ErrEventActive):
		return "That event is already running.", true
	}

	return "", false
}

package service

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors surfaced to the command handlers, which map them onto user
// facing messages.
var (
	ErrFeatureDisabled  = errors.New("feature is disabled")
	ErrBankLimitReached = errors.New("bank vault limit reached")
	ErrMaxBankLevel     = errors.New("bank is already at the maximum level")
	ErrNoStealTarget    = errors.New("no suitable steal target")
	ErrItemNotFound     = errors.New("item is not in the shop rotation")
	ErrItemNotOwned     = errors.New("item is not in your inventory")
	ErrNoBait           = errors.New("no bait left")
	ErrNoFishToSell     = errors.New("no fish to sell")
	ErrSessionNotFound  = errors.New("no game in progress")
	ErrSessionExists    = errors.New("a game is already in progress")
	ErrEventNotFound    = errors.New("no such event")
	ErrEventActive      = errors.New("event is already running")
)

// InsufficientFundsError reports a wallet or bank that cannot cover an
// operation.
type InsufficientFundsError struct {
	Have int64
	Need int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: have %d, need %d", e.Have, e.Need)
}

// CooldownError reports an operation attempted before its cooldown elapsed.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("on cooldown for another %s", e.Remaining.Round(time.Second))
}

// BetRangeError reports a bet outside the configured bounds.
type BetRangeError struct {
	Min int64
	Max int64
}

func (e *BetRangeError) Error() string {
	return fmt.Sprintf("bet must be between %d and %d", e.Min, e.Max)
}

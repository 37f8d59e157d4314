package common

import (
	"fmt"
	"strings"
	"time"

	"coinbot/games"
)

// FormatCoins formats a coin amount with thousand separators
func FormatCoins(amount int64) string {
	// Convert to string
	str := fmt.Sprintf("%d", amount)

	// Add commas for thousands
	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatHand renders a hand of cards, e.g. "A♠ 10♥".
func FormatHand(hand []games.Card) string {
	parts := make([]string, len(hand))
	for i, card := range hand {
		parts[i] = card.String()
	}
	return strings.Join(parts, " ")
}

// FormatBetResult formats the result of a resolved bet
func FormatBetResult(won bool, betAmount, winAmount, newBalance int64) string {
	if won {
		return fmt.Sprintf("🎉 **You won!** You gained **%s coins**. New balance: **%s coins**",
			FormatCoins(winAmount), FormatCoins(newBalance))
	}
	return fmt.Sprintf("😔 **You lost!** You lost **%s coins**. New balance: **%s coins**",
		FormatCoins(betAmount), FormatCoins(newBalance))
}

// FormatDuration renders a cooldown remainder as "3h 12m" or "45s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

package models

// TransactionType classifies a wallet change for event consumers and logging.
type TransactionType string

const (
	TransactionTypeInitial     TransactionType = "initial"
	TransactionTypeDaily       TransactionType = "daily"
	TransactionTypeGameWin     TransactionType = "game_win"
	TransactionTypeGameLoss    TransactionType = "game_loss"
	TransactionTypeStealGain   TransactionType = "steal_gain"
	TransactionTypeStealLoss   TransactionType = "steal_loss"
	TransactionTypeDeposit     TransactionType = "deposit"
	TransactionTypeWithdraw    TransactionType = "withdraw"
	TransactionTypeBankUpgrade TransactionType = "bank_upgrade"
	TransactionTypePurchase    TransactionType = "purchase"
	TransactionTypeItemEffect  TransactionType = "item_effect"
	TransactionTypeFishSale    TransactionType = "fish_sale"
	TransactionTypeEventReward TransactionType = "event_reward"
)

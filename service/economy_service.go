package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"coinbot/config"
	"coinbot/events"
	"coinbot/models"
)

// economyService implements the EconomyService interface
type economyService struct {
	uowFactory      UnitOfWorkFactory
	economyCfg      config.Economy
	bankCfg         config.Bank
	stealCfg        config.Steal
	startingBalance int64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEconomyService creates a new economy service. A nil rng falls back to a
// time-seeded one.
func NewEconomyService(uowFactory UnitOfWorkFactory, economyCfg config.Economy, bankCfg config.Bank, stealCfg config.Steal, startingBalance int64, rng *rand.Rand) EconomyService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &economyService{
		uowFactory:      uowFactory,
		economyCfg:      economyCfg,
		bankCfg:         bankCfg,
		stealCfg:        stealCfg,
		startingBalance: startingBalance,
		rng:             rng,
	}
}

func (s *economyService) rollFloat() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// GetOrCreateAccount returns a member's ledger row, creating it on first contact
func (s *economyService) GetOrCreateAccount(ctx context.Context, userID, guildID int64, username string) (*models.EconomyRecord, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	existing, err := uow.EconomyRepository().Get(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	rec, err := uow.EconomyRepository().GetOrCreate(ctx, userID, guildID, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create account: %w", err)
	}

	if existing == nil {
		if err := uow.EconomyRepository().RecordTransaction(ctx, userID, guildID, s.startingBalance, models.TransactionTypeInitial, username); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
		uow.EventBus().Publish(events.UserCreatedEvent{
			UserID:         userID,
			GuildID:        guildID,
			Username:       username,
			InitialBalance: s.startingBalance,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return rec, nil
}

// ClaimDaily claims the daily reward. The streak extends while the claim lands
// within the grace window after the previous one and resets otherwise.
func (s *economyService) ClaimDaily(ctx context.Context, userID, guildID int64) (*models.DailyResult, error) {
	if !s.economyCfg.Enabled {
		return nil, ErrFeatureDisabled
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.EconomyRepository().GetOrCreate(ctx, userID, guildID, s.startingBalance); err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	rec, err := uow.EconomyRepository().GetForUpdate(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}

	now := time.Now()
	cooldown := time.Duration(s.economyCfg.CooldownHours) * time.Hour
	grace := time.Duration(s.economyCfg.StreakGraceHours) * time.Hour

	streak := 1
	if rec.LastDaily != nil {
		since := now.Sub(*rec.LastDaily)
		if since < cooldown {
			return nil, &CooldownError{Remaining: cooldown - since}
		}
		if since < grace {
			streak = rec.DailyStreak + 1
			if streak > s.economyCfg.MaxStreak {
				streak = s.economyCfg.MaxStreak
			}
		}
	}

	reward := s.economyCfg.DailyBase + s.economyCfg.DailyStreakBonus*int64(streak-1)

	newBalance, err := uow.EconomyRepository().AdjustWallet(ctx, userID, guildID, reward)
	if err != nil {
		return nil, fmt.Errorf("failed to credit daily reward: %w", err)
	}
	if err := uow.EconomyRepository().SetDailyClaim(ctx, userID, guildID, streak, now); err != nil {
		return nil, fmt.Errorf("failed to store daily claim: %w", err)
	}
	if err := uow.EconomyRepository().RecordTransaction(ctx, userID, guildID, reward, models.TransactionTypeDaily, fmt.Sprintf("streak %d", streak)); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		GuildID:         guildID,
		OldBalance:      rec.Wallet,
		NewBalance:      newBalance,
		TransactionType: models.TransactionTypeDaily,
		ChangeAmount:    reward,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.DailyResult{
		Reward:     reward,
		Streak:     streak,
		NewBalance: newBalance,
	}, nil
}

// Deposit moves money from wallet to bank
func (s *economyService) Deposit(ctx context.Context, userID, guildID, amount int64) (*models.DepositResult, error) {
	if !s.bankCfg.Enabled {
		return nil, ErrFeatureDisabled
	}
	if amount <= 0 {
		return nil, fmt.Errorf("deposit amount must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rec, err := uow.EconomyRepository().GetOrCreate(ctx, userID, guildID, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	limit := s.bankCfg.LimitFor(rec.BankLevel)
	ok, err := uow.EconomyRepository().Deposit(ctx, userID, guildID, amount, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to deposit: %w", err)
	}
	if !ok {
		// The conditional update refused; report which guard failed.
		if rec.Wallet < amount {
			return nil, &InsufficientFundsError{Have: rec.Wallet, Need: amount}
		}
		return nil, ErrBankLimitReached
	}

	if err := uow.EconomyRepository().RecordTransaction(ctx, userID, guildID, amount, models.TransactionTypeDeposit, ""); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.DepositResult{
		Deposited: amount,
		NewWallet: rec.Wallet - amount,
		NewBank:   rec.Bank + amount,
		BankLimit: limit,
	}, nil
}

// Withdraw moves money from bank to wallet
func (s *economyService) Withdraw(ctx context.Context, userID, guildID, amount int64) (*models.WithdrawResult, error) {
	if !s.bankCfg.Enabled {
		return nil, ErrFeatureDisabled
	}
	if amount <= 0 {
		return nil, fmt.Errorf("withdraw amount must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rec, err := uow.EconomyRepository().GetOrCreate(ctx, userID, guildID, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	ok, err := uow.EconomyRepository().Withdraw(ctx, userID, guildID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to withdraw: %w", err)
	}
	if !ok {
		return nil, &InsufficientFundsError{Have: rec.Bank, Need: amount}
	}

	if err := uow.EconomyRepository().RecordTransaction(ctx, userID, guildID, amount, models.TransactionTypeWithdraw, ""); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.WithdrawResult{
		Withdrawn: amount,
		NewWallet: rec.Wallet + amount,
		NewBank:   rec.Bank - amount,
	}, nil
}

// UpgradeBank purchases the next bank level
func (s *economyService) UpgradeBank(ctx context.Context, userID, guildID int64) (*models.BankUpgradeResult, error) {
	if !s.bankCfg.Enabled {
		return nil, ErrFeatureDisabled
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rec, err := uow.EconomyRepository().GetOrCreate(ctx, userID, guildID, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if rec.BankLevel >= s.bankCfg.MaxLevel() {
		return nil, ErrMaxBankLevel
	}

	cost := s.bankCfg.UpgradeCostFor(rec.BankLevel)
	ok, err := uow.EconomyRepository().UpgradeBank(ctx, userID, guildID, rec.BankLevel, cost)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade bank: %w", err)
	}
	if !ok {
		return nil, &InsufficientFundsError{Have: rec.Wallet, Need: cost}
	}

	if err := uow.EconomyRepository().RecordTransaction(ctx, userID, guildID, -cost, models.TransactionTypeBankUpgrade, fmt.Sprintf("level %d", rec.BankLevel+1)); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	newLevel := rec.BankLevel + 1
	return &models.BankUpgradeResult{
		NewLevel:  newLevel,
		NewLimit:  s.bankCfg.LimitFor(newLevel),
		Cost:      cost,
		NewWallet: rec.Wallet - cost,
	}, nil
}

// Steal attempts to steal from the target's wallet. The cooldown starts on the
// attempt whether or not it succeeds, so failed thieves cannot retry at once.
func (s *economyService) Steal(ctx context.Context, userID, guildID, targetID int64) (*models.StealResult, error) {
	if !s.stealCfg.Enabled {
		return nil, ErrFeatureDisabled
	}
	if targetID == userID {
		return nil, fmt.Errorf("cannot steal from yourself")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.EconomyRepository().GetOrCreate(ctx, userID, guildID, s.startingBalance); err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	thief, err := uow.EconomyRepository().GetForUpdate(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock thief account: %w", err)
	}

	now := time.Now()
	cooldown := time.Duration(s.stealCfg.CooldownHours) * time.Hour
	if thief.LastSteal != nil {
		if since := now.Sub(*thief.LastSteal); since < cooldown {
			return nil, &CooldownError{Remaining: cooldown - since}
		}
	}

	// The attempt consumes the cooldown regardless of the outcome, even when
	// no valid target turns up.
	if err := uow.EconomyRepository().SetLastSteal(ctx, userID, guildID, now); err != nil {
		return nil, fmt.Errorf("failed to store steal attempt: %w", err)
	}

	var target *models.EconomyRecord
	if targetID != 0 {
		target, err = uow.EconomyRepository().GetForUpdate(ctx, targetID, guildID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock target account: %w", err)
		}
	} else {
		target, err = uow.EconomyRepository().RandomStealTarget(ctx, guildID, userID, s.stealCfg.MinAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to pick steal target: %w", err)
		}
	}
	if target == nil || target.Wallet < s.stealCfg.MinAmount {
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil, ErrNoStealTarget
	}

	if s.rollFloat() >= s.stealCfg.SuccessChance {
		// Caught. Nothing moves, but the cooldown stands.
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &models.StealResult{Amount: 0, TargetID: target.UserID}, nil
	}

	// The take is a fixed cut of the target's wallet, floored at the minimum
	// and capped at what the wallet holds.
	amount := int64(float64(target.Wallet) * s.stealCfg.MaxPercentage)
	if amount < s.stealCfg.MinAmount {
		amount = s.stealCfg.MinAmount
	}
	if amount > target.Wallet {
		amount = target.Wallet
	}

	if err := uow.EconomyRepository().TransferStolen(ctx, userID, target.UserID, guildID, amount); err != nil {
		return nil, fmt.Errorf("failed to transfer stolen funds: %w", err)
	}

	if err := uow.EconomyRepository().RecordTransaction(ctx, userID, guildID, amount, models.TransactionTypeStealGain, fmt.Sprintf("from %d", target.UserID)); err != nil {
		return nil, fmt.Errorf("failed to record thief transaction: %w", err)
	}
	if err := uow.EconomyRepository().RecordTransaction(ctx, target.UserID, guildID, -amount, models.TransactionTypeStealLoss, fmt.Sprintf("by %d", userID)); err != nil {
		return nil, fmt.Errorf("failed to record target transaction: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		GuildID:         guildID,
		OldBalance:      thief.Wallet,
		NewBalance:      thief.Wallet + amount,
		TransactionType: models.TransactionTypeStealGain,
		ChangeAmount:    amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.StealResult{
		Amount:            amount,
		TargetID:          target.UserID,
		StealerNewBalance: thief.Wallet + amount,
		TargetNewBalance:  target.Wallet - amount,
	}, nil
}

// MoneyLeaderboard returns the guild's richest members
func (s *economyService) MoneyLeaderboard(ctx context.Context, guildID int64, limit int) ([]models.MoneyLeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.EconomyRepository().MoneyLeaderboard(ctx, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get money leaderboard: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entries, nil
}

package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"coinbot/config"
	"coinbot/events"
	"coinbot/games"
	"coinbot/models"
)

// gamblingService implements the GamblingService interface. Bets are debited
// when the game starts; a win credits the full payout at settlement.
type gamblingService struct {
	uowFactory      UnitOfWorkFactory
	cfg             config.Gambling
	startingBalance int64
	sessions        *blackjackSessions

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGamblingService creates a new gambling service. A nil rng falls back to a
// time-seeded one.
func NewGamblingService(uowFactory UnitOfWorkFactory, cfg config.Gambling, startingBalance int64, rng *rand.Rand) GamblingService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	ttl := time.Duration(cfg.SessionExpiryMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &gamblingService{
		uowFactory:      uowFactory,
		cfg:             cfg,
		startingBalance: startingBalance,
		sessions:        newBlackjackSessions(ttl),
		rng:             rng,
	}
}

func (s *gamblingService) validateBet(bet int64) error {
	if !s.cfg.Enabled {
		return ErrFeatureDisabled
	}
	if bet < s.cfg.MinBet || bet > s.cfg.MaxBet {
		return &BetRangeError{Min: s.cfg.MinBet, Max: s.cfg.MaxBet}
	}
	return nil
}

// debitBet takes the bet from the wallet inside the caller's unit of work.
func (s *gamblingService) debitBet(ctx context.Context, uow UnitOfWork, userID, guildID, bet int64) error {
	rec, err := uow.EconomyRepository().GetOrCreate(ctx, userID, guildID, s.startingBalance)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	ok, err := uow.EconomyRepository().TryDebitWallet(ctx, userID, guildID, bet)
	if err != nil {
		return fmt.Errorf("failed to debit bet: %w", err)
	}
	if !ok {
		return &InsufficientFundsError{Have: rec.Wallet, Need: bet}
	}

	return nil
}

// settle credits the payout, bumps the gambling counters, and records the
// audit row. net is payout minus bet.
func (s *gamblingService) settle(ctx context.Context, uow UnitOfWork, userID, guildID, payout, bet int64, game string) (int64, error) {
	net := payout - bet

	newBalance, err := uow.EconomyRepository().SettleGame(ctx, userID, guildID, payout, net)
	if err != nil {
		return 0, fmt.Errorf("failed to settle game: %w", err)
	}

	txType := models.TransactionTypeGameLoss
	if net > 0 {
		txType = models.TransactionTypeGameWin
	}
	if err := uow.EconomyRepository().RecordTransaction(ctx, userID, guildID, net, txType, game); err != nil {
		return 0, fmt.Errorf("failed to record transaction: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		GuildID:         guildID,
		OldBalance:      newBalance - net,
		NewBalance:      newBalance,
		TransactionType: txType,
		ChangeAmount:    net,
	})

	return newBalance, nil
}

// Coinflip bets on a coin landing on the called side
func (s *gamblingService) Coinflip(ctx context.Context, userID, guildID, bet int64, call games.CoinSide) (*CoinflipResult, error) {
	if err := s.validateBet(bet); err != nil {
		return nil, err
	}
	if call != games.Heads && call != games.Tails {
		return nil, fmt.Errorf("call must be heads or tails")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := s.debitBet(ctx, uow, userID, guildID, bet); err != nil {
		return nil, err
	}

	s.mu.Lock()
	side := games.FlipCoin(s.rng)
	s.mu.Unlock()

	won := side == call
	var payout int64
	if won {
		payout = int64(float64(bet) * s.cfg.CoinflipPayout)
	}

	newBalance, err := s.settle(ctx, uow, userID, guildID, payout, bet, "coinflip")
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &CoinflipResult{
		Side:       side,
		Won:        won,
		Bet:        bet,
		Payout:     payout,
		NewBalance: newBalance,
	}, nil
}

// Poker draws five cards and pays by hand rank
func (s *gamblingService) Poker(ctx context.Context, userID, guildID, bet int64) (*PokerResult, error) {
	if err := s.validateBet(bet); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := s.debitBet(ctx, uow, userID, guildID, bet); err != nil {
		return nil, err
	}

	s.mu.Lock()
	hand := games.NewDeck(s.rng).DrawN(5)
	s.mu.Unlock()

	rank := games.EvaluatePokerHand(hand)
	payout := int64(float64(bet) * s.cfg.PokerPayouts[rank.String()])

	newBalance, err := s.settle(ctx, uow, userID, guildID, payout, bet, "poker")
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &PokerResult{
		Hand:       hand,
		Rank:       rank,
		Bet:        bet,
		Payout:     payout,
		NewBalance: newBalance,
	}, nil
}

// StartBlackjack opens a blackjack round and debits the bet. A natural on the
// opening hand resolves immediately.
func (s *gamblingService) StartBlackjack(ctx context.Context, userID, guildID, bet int64) (*BlackjackView, error) {
	if err := s.validateBet(bet); err != nil {
		return nil, err
	}
	if s.sessions.Get(guildID, userID) != nil {
		return nil, ErrSessionExists
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := s.debitBet(ctx, uow, userID, guildID, bet); err != nil {
		return nil, err
	}

	s.mu.Lock()
	session := games.NewBlackjackSession(s.rng, userID, guildID, bet)
	s.mu.Unlock()

	// A natural pays out without player input.
	if games.IsBlackjack(session.PlayerHand) {
		outcome := session.Stand()
		payout := s.payoutFor(outcome, bet)
		newBalance, err := s.settle(ctx, uow, userID, guildID, payout, bet, "blackjack")
		if err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return s.finishedView(session, outcome, payout, newBalance), nil
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if !s.sessions.Put(guildID, userID, session) {
		// Lost the race to another session; treat the debit as settled loss.
		return nil, ErrSessionExists
	}

	return &BlackjackView{
		PlayerHand:  session.PlayerHand,
		DealerHand:  session.DealerHand[:1],
		PlayerScore: games.Score(session.PlayerHand),
		Bet:         bet,
	}, nil
}

// HitBlackjack deals the player one more card, resolving the round on a bust
func (s *gamblingService) HitBlackjack(ctx context.Context, userID, guildID int64) (*BlackjackView, error) {
	session := s.sessions.Get(guildID, userID)
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if busted := session.Hit(); !busted {
		return &BlackjackView{
			PlayerHand:  session.PlayerHand,
			DealerHand:  session.DealerHand[:1],
			PlayerScore: games.Score(session.PlayerHand),
			Bet:         session.Bet,
		}, nil
	}

	s.sessions.Delete(guildID, userID)
	return s.resolve(ctx, session, games.OutcomePlayerLose)
}

// StandBlackjack finishes the round against the dealer
func (s *gamblingService) StandBlackjack(ctx context.Context, userID, guildID int64) (*BlackjackView, error) {
	session := s.sessions.Get(guildID, userID)
	if session == nil {
		return nil, ErrSessionNotFound
	}

	s.sessions.Delete(guildID, userID)
	return s.resolve(ctx, session, session.Stand())
}

func (s *gamblingService) payoutFor(outcome games.BlackjackOutcome, bet int64) int64 {
	switch outcome {
	case games.OutcomePlayerBlackjack:
		return int64(float64(bet) * s.cfg.BlackjackNatural)
	case games.OutcomePlayerWin:
		return int64(float64(bet) * s.cfg.BlackjackPayout)
	case games.OutcomePush:
		return bet
	default:
		return 0
	}
}

func (s *gamblingService) resolve(ctx context.Context, session *games.BlackjackSession, outcome games.BlackjackOutcome) (*BlackjackView, error) {
	payout := s.payoutFor(outcome, session.Bet)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	newBalance, err := s.settle(ctx, uow, session.UserID, session.GuildID, payout, session.Bet, "blackjack")
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.finishedView(session, outcome, payout, newBalance), nil
}

func (s *gamblingService) finishedView(session *games.BlackjackSession, outcome games.BlackjackOutcome, payout, newBalance int64) *BlackjackView {
	return &BlackjackView{
		PlayerHand:  session.PlayerHand,
		DealerHand:  session.DealerHand,
		PlayerScore: games.Score(session.PlayerHand),
		DealerScore: games.Score(session.DealerHand),
		Done:        true,
		Outcome:     outcome,
		Bet:         session.Bet,
		Payout:      payout,
		NewBalance:  newBalance,
	}
}

package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coinbot/config"
	"coinbot/games"
	"coinbot/models"
)

func gamblingConfig() config.Gambling {
	return config.Gambling{
		Enabled:          true,
		MinBet:           10,
		MaxBet:           10000,
		CoinflipPayout:   2.0,
		BlackjackPayout:  2.0,
		BlackjackNatural: 2.5,
		PokerPayouts: map[string]float64{
			"High Card":       0,
			"Pair":            1,
			"Two Pair":        2,
			"Three of a Kind": 3,
			"Straight":        4,
			"Flush":           6,
			"Full House":      10,
			"Four of a Kind":  25,
			"Straight Flush":  50,
			"Royal Flush":     100,
		},
		SessionExpiryMinutes: 10,
	}
}

func newGamblingMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockEconomyRepository, *MockEventPublisher) {
	repo := new(MockEconomyRepository)
	bus := new(MockEventPublisher)
	uow := new(MockUnitOfWork)
	uow.SetRepositories(nil, repo, nil, nil, nil, bus)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback").Return(nil)
	uow.On("Commit").Return(nil)
	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow)
	return factory, uow, repo, bus
}

func TestCoinflip_BetOutOfRange(t *testing.T) {
	factory, _, _, _ := newGamblingMocks()
	svc := NewGamblingService(factory, gamblingConfig(), 100, nil)

	_, err := svc.Coinflip(context.Background(), 1, 2, 5, games.Heads)
	var betErr *BetRangeError
	require.ErrorAs(t, err, &betErr)
	assert.Equal(t, int64(10), betErr.Min)
	assert.Equal(t, int64(10000), betErr.Max)
	factory.AssertNotCalled(t, "Create")
}

func TestCoinflip_Disabled(t *testing.T) {
	factory, _, _, _ := newGamblingMocks()
	cfg := gamblingConfig()
	cfg.Enabled = false
	svc := NewGamblingService(factory, cfg, 100, nil)

	_, err := svc.Coinflip(context.Background(), 1, 2, 100, games.Heads)
	assert.ErrorIs(t, err, ErrFeatureDisabled)
}

func TestCoinflip_InsufficientFunds(t *testing.T) {
	factory, _, repo, _ := newGamblingMocks()
	svc := NewGamblingService(factory, gamblingConfig(), 100, nil)

	rec := &models.EconomyRecord{UserID: 1, GuildID: 2, Wallet: 30}
	repo.On("GetOrCreate", mock.Anything, int64(1), int64(2), int64(100)).Return(rec, nil)
	repo.On("TryDebitWallet", mock.Anything, int64(1), int64(2), int64(100)).Return(false, nil)

	_, err := svc.Coinflip(context.Background(), 1, 2, 100, games.Heads)
	var fundsErr *InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, int64(30), fundsErr.Have)
	repo.AssertNotCalled(t, "SettleGame")
}

func TestCoinflip_Win(t *testing.T) {
	factory, _, repo, bus := newGamblingMocks()
	// Intn(2) pinned to 0, so the coin always lands heads.
	svc := NewGamblingService(factory, gamblingConfig(), 100, rand.New(fixedSource(0)))

	rec := &models.EconomyRecord{UserID: 1, GuildID: 2, Wallet: 500}
	repo.On("GetOrCreate", mock.Anything, int64(1), int64(2), int64(100)).Return(rec, nil)
	repo.On("TryDebitWallet", mock.Anything, int64(1), int64(2), int64(100)).Return(true, nil)
	repo.On("SettleGame", mock.Anything, int64(1), int64(2), int64(200), int64(100)).Return(int64(600), nil)
	repo.On("RecordTransaction", mock.Anything, int64(1), int64(2), int64(100), models.TransactionTypeGameWin, "coinflip").Return(nil)
	bus.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	result, err := svc.Coinflip(context.Background(), 1, 2, 100, games.Heads)
	require.NoError(t, err)
	assert.True(t, result.Won)
	assert.Equal(t, games.Heads, result.Side)
	assert.Equal(t, int64(200), result.Payout)
	assert.Equal(t, int64(600), result.NewBalance)
	repo.AssertExpectations(t)
}

func TestCoinflip_Loss(t *testing.T) {
	factory, _, repo, bus := newGamblingMocks()
	svc := NewGamblingService(factory, gamblingConfig(), 100, rand.New(fixedSource(0)))

	rec := &models.EconomyRecord{UserID: 1, GuildID: 2, Wallet: 500}
	repo.On("GetOrCreate", mock.Anything, int64(1), int64(2), int64(100)).Return(rec, nil)
	repo.On("TryDebitWallet", mock.Anything, int64(1), int64(2), int64(100)).Return(true, nil)
	repo.On("SettleGame", mock.Anything, int64(1), int64(2), int64(0), int64(-100)).Return(int64(400), nil)
	repo.On("RecordTransaction", mock.Anything, int64(1), int64(2), int64(-100), models.TransactionTypeGameLoss, "coinflip").Return(nil)
	bus.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	result, err := svc.Coinflip(context.Background(), 1, 2, 100, games.Tails)
	require.NoError(t, err)
	assert.False(t, result.Won)
	assert.Equal(t, int64(0), result.Payout)
	assert.Equal(t, int64(400), result.NewBalance)
}

func TestPoker_PayoutFollowsRankTable(t *testing.T) {
	factory, _, repo, bus := newGamblingMocks()
	cfg := gamblingConfig()
	svc := NewGamblingService(factory, cfg, 100, rand.New(rand.NewSource(42)))

	rec := &models.EconomyRecord{UserID: 1, GuildID: 2, Wallet: 5000}
	repo.On("GetOrCreate", mock.Anything, int64(1), int64(2), int64(100)).Return(rec, nil)
	repo.On("TryDebitWallet", mock.Anything, int64(1), int64(2), int64(100)).Return(true, nil)
	repo.On("SettleGame", mock.Anything, int64(1), int64(2), mock.Anything, mock.Anything).Return(int64(5000), nil)
	repo.On("RecordTransaction", mock.Anything, int64(1), int64(2), mock.Anything, mock.Anything, "poker").Return(nil)
	bus.On("Publish", mock.Anything).Return()

	result, err := svc.Poker(context.Background(), 1, 2, 100)
	require.NoError(t, err)
	assert.Len(t, result.Hand, 5)
	expected := int64(float64(100) * cfg.PokerPayouts[result.Rank.String()])
	assert.Equal(t, expected, result.Payout)
}

// startLiveBlackjack starts rounds with increasing seeds until one does not
// resolve as an immediate natural. Each attempt gets fresh mocks so earlier
// naturals cannot leak settle calls into the returned repo.
func startLiveBlackjack(t *testing.T) (GamblingService, *BlackjackView, *MockEconomyRepository, *MockEventPublisher) {
	t.Helper()
	for seed := int64(0); seed < 50; seed++ {
		factory, _, repo, bus := newGamblingMocks()
		rec := &models.EconomyRecord{UserID: 1, GuildID: 2, Wallet: 5000}
		repo.On("GetOrCreate", mock.Anything, int64(1), int64(2), int64(100)).Return(rec, nil)
		repo.On("TryDebitWallet", mock.Anything, int64(1), int64(2), int64(100)).Return(true, nil)
		repo.On("SettleGame", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(5000), nil).Maybe()
		repo.On("RecordTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, "blackjack").Return(nil).Maybe()
		bus.On("Publish", mock.Anything).Return().Maybe()

		svc := NewGamblingService(factory, gamblingConfig(), 100, rand.New(rand.NewSource(seed)))
		view, err := svc.StartBlackjack(context.Background(), 1, 2, 100)
		require.NoError(t, err)
		if !view.Done {
			return svc, view, repo, bus
		}
	}
	t.Fatal("every seed dealt a natural")
	return nil, nil, nil, nil
}

func TestStartBlackjack_HidesDealerHoleCard(t *testing.T) {
	_, view, _, _ := startLiveBlackjack(t)
	assert.Len(t, view.PlayerHand, 2)
	assert.Len(t, view.DealerHand, 1)
	assert.Equal(t, int64(100), view.Bet)
	assert.False(t, view.Done)
}

func TestBlackjack_DuplicateSessionRefused(t *testing.T) {
	svc, _, _, _ := startLiveBlackjack(t)
	_, err := svc.StartBlackjack(context.Background(), 1, 2, 100)
	assert.ErrorIs(t, err, ErrSessionExists)
}

func TestStandBlackjack_ResolvesAndClearsSession(t *testing.T) {
	svc, _, _, _ := startLiveBlackjack(t)

	view, err := svc.StandBlackjack(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, view.Done)
	assert.GreaterOrEqual(t, games.Score(view.DealerHand), games.DealerStandScore)
	assert.GreaterOrEqual(t, len(view.DealerHand), 2)

	_, err = svc.StandBlackjack(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHitBlackjack_NoSession(t *testing.T) {
	factory, _, _, _ := newGamblingMocks()
	svc := NewGamblingService(factory, gamblingConfig(), 100, nil)

	_, err := svc.HitBlackjack(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestBlackjack_SessionExpiryForfeitsBet(t *testing.T) {
	svc, _, repo, _ := startLiveBlackjack(t)
	impl := svc.(*gamblingService)
	impl.sessions.now = func() time.Time {
		return time.Now().Add(11 * time.Minute)
	}

	_, err := svc.StandBlackjack(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	repo.AssertNotCalled(t, "SettleGame")
}

package bonus_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MariusRejdak/igaming/internal/bonus"
	"github.com/MariusRejdak/igaming/internal/event"
	"github.com/MariusRejdak/igaming/internal/wallet"
)

func setupEngine(t *testing.T) (*gorm.DB, *event.Bus, bonus.Repository) {
	t.Helper()
	db := setupDB(t)
	repo := bonus.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	bus := event.NewBus()

	engine := bonus.NewEngine(repo, func(ctx context.Context, userID string) (*wallet.Service, error) {
		return wallet.NewService(ctx, db, walletRepo, bus, userID)
	})
	engine.Register(bus)
	return db, bus, repo
}

func userWallets(t *testing.T, db *gorm.DB, bus *event.Bus, userID string) []wallet.Wallet {
	t.Helper()
	ws, err := wallet.NewService(context.Background(), db, wallet.NewRepository(db), bus, userID)
	require.NoError(t, err)
	wallets, err := ws.AllWallets(context.Background())
	require.NoError(t, err)
	return wallets
}

func TestLoginGrantsBonusWallet(t *testing.T) {
	db, bus, repo := setupEngine(t)

	createDefinition(t, repo, bonus.Definition{
		Amount:              decimal.NewFromInt(5),
		Currency:            wallet.CurrencyBonus,
		WageringRequirement: 1,
		Action:              bonus.ActionLogin,
		MinAmount:           decimal.Zero,
	})

	userID := uuid.NewString()
	bus.Publish(event.TopicUserLoggedIn, event.UserLoggedIn{UserID: userID})

	wallets := userWallets(t, db, bus, userID)
	require.Len(t, wallets, 2)
	require.Equal(t, wallet.CurrencyBonus, wallets[1].Currency)
	require.True(t, wallets[1].Amount.Equal(decimal.NewFromInt(5)))
	require.Equal(t, 1, wallets[1].WageringRequirement)
}

func TestLoginIgnoresThresholdedDefinitions(t *testing.T) {
	db, bus, repo := setupEngine(t)

	createDefinition(t, repo, bonus.Definition{
		Amount:              decimal.NewFromInt(5),
		Currency:            wallet.CurrencyBonus,
		WageringRequirement: 1,
		Action:              bonus.ActionLogin,
		MinAmount:           decimal.NewFromInt(1),
	})

	userID := uuid.NewString()
	bus.Publish(event.TopicUserLoggedIn, event.UserLoggedIn{UserID: userID})

	wallets := userWallets(t, db, bus, userID)
	require.Len(t, wallets, 1, "login qualifies with amount 0 only")
}

func TestDepositGrantsMatchingBonuses(t *testing.T) {
	db, bus, repo := setupEngine(t)

	createDefinition(t, repo, bonus.Definition{
		Amount:              decimal.NewFromInt(20),
		Currency:            wallet.CurrencyBonus,
		WageringRequirement: 2,
		Action:              bonus.ActionDeposit,
		MinAmount:           decimal.NewFromInt(10),
	})

	userID := uuid.NewString()
	ws, err := wallet.NewService(context.Background(), db, wallet.NewRepository(db), bus, userID)
	require.NoError(t, err)

	// Below the threshold: no grant.
	require.NoError(t, ws.Deposit(context.Background(), decimal.NewFromInt(9)))
	require.Len(t, userWallets(t, db, bus, userID), 1)

	// At the threshold: bonus wallet appears.
	require.NoError(t, ws.Deposit(context.Background(), decimal.NewFromInt(10)))
	wallets := userWallets(t, db, bus, userID)
	require.Len(t, wallets, 2)
	require.True(t, wallets[0].Amount.Equal(decimal.NewFromInt(19)))
	require.True(t, wallets[1].Amount.Equal(decimal.NewFromInt(20)))
}

func TestCustomerUpdatedConvertsEligibleWallets(t *testing.T) {
	db, bus, _ := setupEngine(t)

	userID := uuid.NewString()
	ws, err := wallet.NewService(context.Background(), db, wallet.NewRepository(db), bus, userID)
	require.NoError(t, err)
	require.NoError(t, ws.GrantBonus(context.Background(), wallet.BonusGrant{
		Amount:              decimal.NewFromInt(10),
		Currency:            wallet.CurrencyBonus,
		WageringRequirement: 1,
	}))

	// Wagering incomplete: nothing converts.
	bus.Publish(event.TopicCustomerUpdated, event.CustomerUpdated{UserID: userID})
	wallets := userWallets(t, db, bus, userID)
	require.True(t, wallets[0].Amount.IsZero())
	require.False(t, wallets[1].Depleted)

	// Simulate 10 EUR of staking, then re-check.
	err = db.Model(&wallet.Customer{}).
		Where("user_id = ?", userID).
		Update("overall_spent_money", decimal.NewFromInt(10)).Error
	require.NoError(t, err)

	bus.Publish(event.TopicCustomerUpdated, event.CustomerUpdated{UserID: userID})
	wallets = userWallets(t, db, bus, userID)
	require.True(t, wallets[0].Amount.Equal(decimal.NewFromInt(10)))
	require.True(t, wallets[1].Depleted)
	require.True(t, wallets[1].Amount.IsZero())
}

package game_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/MariusRejdak/igaming/internal/game"
)

func TestCoinFlipWin(t *testing.T) {
	g := game.NewCoinFlip()
	g.Flip = func() bool { return true }

	delta, status := g.Play(decimal.NewFromInt(10))
	require.True(t, delta.Equal(decimal.NewFromInt(10)))
	require.Equal(t, game.StatusWon, status)
}

func TestCoinFlipLose(t *testing.T) {
	g := game.NewCoinFlip()
	g.Flip = func() bool { return false }

	delta, status := g.Play(decimal.NewFromInt(10))
	require.True(t, delta.Equal(decimal.NewFromInt(-10)))
	require.Equal(t, game.StatusLost, status)
}

func TestCoinFlipDefaultFlip(t *testing.T) {
	g := game.NewCoinFlip()
	stake := decimal.NewFromInt(1)

	for i := 0; i < 20; i++ {
		delta, status := g.Play(stake)
		switch status {
		case game.StatusWon:
			require.True(t, delta.Equal(stake))
		case game.StatusLost:
			require.True(t, delta.Equal(stake.Neg()))
		default:
			t.Fatalf("unexpected status %q", status)
		}
	}
}

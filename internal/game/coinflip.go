package game

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// CoinFlip is the simplest game variant: a fair 50/50 toss. A win returns the
// stake as profit, a loss forfeits it.
type CoinFlip struct {
	Flip func() bool
}

func NewCoinFlip() *CoinFlip {
	return &CoinFlip{
		Flip: func() bool { return rand.IntN(2) == 0 },
	}
}

func (g *CoinFlip) Play(stake decimal.Decimal) (decimal.Decimal, string) {
	if g.Flip() {
		return stake, StatusWon
	}
	return stake.Neg(), StatusLost
}

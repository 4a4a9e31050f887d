package checker

import (
	"math/big"
	"testing"

	"github.com/HelioTeam/helio-go-node/core/state/bus"
)

func TestChecker_BalancedMoves(t *testing.T) {
	checker := NewChecker(bus.NewBus())

	// stake 100 from a balance into a bucket
	checker.AddCoin(big.NewInt(-100))
	checker.AddCoin(big.NewInt(100))

	if err := checker.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestChecker_MintedRewards(t *testing.T) {
	checker := NewChecker(bus.NewBus())

	checker.AddCoin(big.NewInt(7))
	checker.AddVolume(big.NewInt(7))

	if err := checker.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestChecker_DetectsLeak(t *testing.T) {
	checker := NewChecker(bus.NewBus())

	checker.AddCoin(big.NewInt(5))

	if err := checker.Check(); err == nil {
		t.Fatal("unbacked coins passed the check")
	}
}

func TestChecker_Reset(t *testing.T) {
	checker := NewChecker(bus.NewBus())

	checker.AddCoin(big.NewInt(5))
	checker.Reset()

	if err := checker.Check(); err != nil {
		t.Fatal(err)
	}
}

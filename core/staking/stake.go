package staking

import (
	"fmt"
	"math/big"

	"github.com/HelioTeam/helio-go-node/core/code"
	eventsdb "github.com/HelioTeam/helio-go-node/core/events"
	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/HelioTeam/helio-go-node/helpers"
)

// AddStake moves coins from the signer's balance into the pool whose
// owner capability the signer holds. Current-epoch validators receive
// the stake into pending_active so it cannot influence voting power
// until the next epoch; everyone else stakes straight into active.
func (s *Staking) AddStake(signer types.Address, amount *big.Int) Response {
	pool, resp := s.poolByCap(signer)
	if !resp.IsOK() {
		return resp
	}

	if amount.Sign() != 1 {
		return failure(code.InvalidStakeAmount, "stake amount must be positive")
	}

	if s.state.Accounts.GetBalance(signer).Cmp(amount) == -1 {
		return failure(code.InsufficientFunds, fmt.Sprintf("insufficient balance to stake %s", amount.String()))
	}

	_, maxStake := s.state.StakingConfig.StakeBounds()
	next := big.NewInt(0).Add(s.state.Pools.TotalStaked(pool), amount)
	if next.Cmp(maxStake) == 1 {
		return failure(code.StakeExceedsMax, fmt.Sprintf("total stake %s would exceed max stake %s", next.String(), maxStake.String()))
	}

	s.state.Accounts.SubBalance(signer, amount)
	if s.state.ValSet.IsCurrentEpochValidator(pool) {
		s.state.Pools.DepositPendingActive(pool, amount)
	} else {
		s.state.Pools.DepositActive(pool, amount)
	}

	s.addEvent(&eventsdb.AddStakeEvent{
		Address: pool,
		Amount:  amount.String(),
	})

	return ok()
}

// Unlock schedules stake for withdrawal by moving it from active to
// pending_inactive. Zero amounts return silently without an event.
func (s *Staking) Unlock(signer types.Address, amount *big.Int) Response {
	pool, resp := s.poolByCap(signer)
	if !resp.IsOK() {
		return resp
	}

	if amount.Sign() == -1 {
		return failure(code.InvalidStakeAmount, "unlock amount must not be negative")
	}
	if amount.Sign() == 0 {
		return ok()
	}

	if !s.state.Pools.Unlock(pool, amount) {
		return failure(code.InsufficientActive, fmt.Sprintf("active stake below unlock amount %s", amount.String()))
	}

	s.addEvent(&eventsdb.UnlockStakeEvent{
		Address: pool,
		Amount:  amount.String(),
	})

	return ok()
}

// Withdraw pays out inactive stake to the signer. When the pool left
// the set and its lockup expired, expired pending_inactive stake is
// swept into inactive first, so funds become withdrawable without an
// extra epoch tick. The payout is clamped to the inactive bucket.
func (s *Staking) Withdraw(signer types.Address, amount *big.Int) Response {
	pool, resp := s.poolByCap(signer)
	if !resp.IsOK() {
		return resp
	}

	if amount.Sign() != 1 {
		return failure(code.WithdrawNotAllowed, "withdraw amount must be positive")
	}

	if s.state.ValSet.State(pool) == types.ValidatorStateInactive && s.now() >= s.state.Pools.LockedUntil(pool) {
		s.state.Pools.SweepExpired(pool)
	}

	_, inactive, _, _ := s.state.Pools.Buckets(pool)
	payout := helpers.BigMin(amount, inactive)
	if payout.Sign() != 1 {
		return failure(code.NoCoinsToWithdraw, "no inactive stake to withdraw")
	}

	s.state.Pools.WithdrawInactive(pool, signer, payout)

	s.addEvent(&eventsdb.WithdrawStakeEvent{
		Address: pool,
		Amount:  payout.String(),
	})

	return ok()
}

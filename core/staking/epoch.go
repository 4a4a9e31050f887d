package staking

import (
	"math/big"

	"github.com/HelioTeam/helio-go-node/core/rewards"
	"github.com/HelioTeam/helio-go-node/core/state/valset"
)

// OnNewEpoch runs the epoch transition. It never aborts: pools that
// vanished from under the set are skipped, empty buckets earn zero.
//
// Order matters. Rewards are settled against the outgoing epoch's
// performance before any bucket moves; pending_inactive releases
// before lockups renew, so a validator leaving at an expired lockup
// gets its stake back instead of a fresh lockup period.
func (s *Staking) OnNewEpoch(priv *Privilege) Response {
	if resp := s.requirePrivilege(priv); !resp.IsOK() {
		return resp
	}

	rate, denom := s.state.StakingConfig.RewardRate()
	minStake, _ := s.state.StakingConfig.StakeBounds()
	recurringLockup := s.state.StakingConfig.RecurringLockupSecs()
	now := s.now()

	members := append(s.state.ValSet.Active(), s.state.ValSet.PendingInactive()...)

	minted := big.NewInt(0)
	for _, member := range members {
		if !s.state.Pools.Exists(member.Address) {
			continue
		}

		index := s.state.ValConfig.Index(member.Address)
		counters, _ := s.state.ValSet.Counters(index)
		successful := counters.Successful
		total := counters.Successful + counters.Failed

		active, _, _, pendingInactive := s.state.Pools.Buckets(member.Address)
		minted.Add(minted, rewards.Distribute(s.mintAuth, s.state.Accounts, s.state.Pools, member.Address, active, successful, total, rate, denom, false))
		minted.Add(minted, rewards.Distribute(s.mintAuth, s.state.Accounts, s.state.Pools, member.Address, pendingInactive, successful, total, rate, denom, true))

		s.state.Pools.PromotePendingActive(member.Address)

		if now >= s.state.Pools.LockedUntil(member.Address) {
			s.state.Pools.SweepExpired(member.Address)
		}
	}

	incoming := append(s.state.ValSet.Active(), s.state.ValSet.PendingActive()...)

	next := make([]*valset.ValidatorInfo, 0, len(incoming))
	for _, member := range incoming {
		if !s.state.Pools.Exists(member.Address) {
			continue
		}

		power := s.state.Pools.VotingPower(member.Address)
		if power.Cmp(minStake) == -1 {
			continue
		}

		next = append(next, &valset.ValidatorInfo{
			Address:         member.Address,
			ConsensusPubkey: s.state.ValConfig.ConsensusPubkey(member.Address),
			VotingPower:     power,
		})
	}

	for i, member := range next {
		s.state.ValConfig.SetIndex(member.Address, uint64(i))
	}

	s.state.ValSet.Replace(next, nil, nil)
	s.state.ValSet.ResetPerformance(len(next))

	for _, member := range next {
		if s.state.Pools.LockedUntil(member.Address) <= now {
			s.state.Pools.SetLockedUntil(member.Address, now+recurringLockup)
		}
	}

	epoch := s.state.App.Epoch() + 1
	s.state.App.SetEpoch(epoch)

	if s.metrics != nil {
		s.metrics.EpochsTotal.Inc()
		s.metrics.ActiveValidators.Set(float64(len(next)))

		mintedFloat, _ := new(big.Float).SetInt(minted).Float64()
		s.metrics.RewardsMintedTotal.Add(mintedFloat)

		stakedFloat, _ := new(big.Float).SetInt(s.state.ValSet.TotalVotingPower()).Float64()
		s.metrics.StakedTotal.Set(stakedFloat)
	}

	s.logger.Info("epoch transition",
		"epoch", epoch,
		"validators", len(next),
		"minted", minted.String(),
	)

	return ok()
}

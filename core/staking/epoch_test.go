package staking

import (
	"math/big"
	"testing"

	"github.com/HelioTeam/helio-go-node/core/code"
	"github.com/HelioTeam/helio-go-node/core/state/valset"
	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/stretchr/testify/require"
)

func proposer(index uint64) *uint64 {
	return &index
}

func TestEpoch_ValidatorLifecycle(t *testing.T) {
	service, priv, clock := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)
	require.True(t, service.AddStake(addrV1, big.NewInt(100)).IsOK())
	require.True(t, service.JoinValidatorSet(addrV1, addrV1).IsOK())

	require.True(t, service.OnNewEpoch(priv).IsOK())
	require.Equal(t, types.ValidatorStateActive, service.ValidatorState(addrV1))

	active, _, _, _ := service.State().Pools.Buckets(addrV1)
	require.Zero(t, active.Cmp(big.NewInt(100)))

	// stake added while active waits in pending_active until the next epoch
	require.True(t, service.AddStake(addrV1, big.NewInt(100)).IsOK())
	_, _, pendingActive, _ := service.State().Pools.Buckets(addrV1)
	require.Zero(t, pendingActive.Cmp(big.NewInt(100)))

	index := service.State().ValConfig.Index(addrV1)
	require.True(t, service.UpdatePerformanceStatistics(priv, proposer(index), nil).IsOK())
	require.True(t, service.OnNewEpoch(priv).IsOK())

	// 1% reward on the active 100, then the pending 100 promotes
	active, _, pendingActive, _ = service.State().Pools.Buckets(addrV1)
	require.Zero(t, active.Cmp(big.NewInt(201)), "active is %s", active.String())
	require.Zero(t, pendingActive.Sign())

	require.True(t, service.Unlock(addrV1, big.NewInt(100)).IsOK())
	active, _, _, pendingInactive := service.State().Pools.Buckets(addrV1)
	require.Zero(t, active.Cmp(big.NewInt(101)))
	require.Zero(t, pendingInactive.Cmp(big.NewInt(100)))

	// pending_inactive still earns until the lockup releases it
	clock.Seconds += 3600
	index = service.State().ValConfig.Index(addrV1)
	require.True(t, service.UpdatePerformanceStatistics(priv, proposer(index), nil).IsOK())
	require.True(t, service.OnNewEpoch(priv).IsOK())

	active, inactive, _, pendingInactive := service.State().Pools.Buckets(addrV1)
	require.Zero(t, active.Cmp(big.NewInt(102)))
	require.Zero(t, inactive.Cmp(big.NewInt(101)))
	require.Zero(t, pendingInactive.Sign())

	require.True(t, service.Withdraw(addrV1, big.NewInt(50)).IsOK())
	require.True(t, service.Withdraw(addrV1, big.NewInt(51)).IsOK())

	balance := service.State().Accounts.GetBalance(addrV1)
	require.Zero(t, balance.Cmp(big.NewInt(901)), "balance is %s", balance.String())

	_, inactive, _, _ = service.State().Pools.Buckets(addrV1)
	require.Zero(t, inactive.Sign())
}

func TestEpoch_RewardsFollowPerformance(t *testing.T) {
	service, priv, _ := newTestStaking(t, true)

	for i, owner := range []types.Address{addrV1, addrV2} {
		fundAndRegister(t, service, owner, byte(i+1), 1000)
		require.True(t, service.AddStake(owner, big.NewInt(100)).IsOK())
		require.True(t, service.JoinValidatorSet(owner, owner).IsOK())
	}
	require.True(t, service.OnNewEpoch(priv).IsOK())

	proposerIndex := service.State().ValConfig.Index(addrV1)
	failedIndex := service.State().ValConfig.Index(addrV2)
	require.True(t, service.UpdatePerformanceStatistics(priv, proposer(proposerIndex), []uint64{failedIndex}).IsOK())
	require.True(t, service.OnNewEpoch(priv).IsOK())

	activeV1, _, _, _ := service.State().Pools.Buckets(addrV1)
	require.Zero(t, activeV1.Cmp(big.NewInt(101)), "proposer active is %s", activeV1.String())

	activeV2, _, _, _ := service.State().Pools.Buckets(addrV2)
	require.Zero(t, activeV2.Cmp(big.NewInt(100)), "failed validator active is %s", activeV2.String())
}

func TestEpoch_FrozenSet(t *testing.T) {
	service, priv, _ := newTestStaking(t, false)

	resp := service.CreateInitializeValidators(priv, []GenesisValidator{{
		Owner:             addrV1,
		ConsensusPubkey:   testPubkey(1),
		ProofOfPossession: testPoP,
		NetworkAddresses:  []byte("/net"),
		FullnodeAddresses: []byte("/fn"),
		Stake:             big.NewInt(100),
	}})
	require.True(t, resp.IsOK(), resp.Log)
	require.Equal(t, types.ValidatorStateActive, service.ValidatorState(addrV1))

	fundAndRegister(t, service, addrV2, 2, 1000)
	require.True(t, service.AddStake(addrV2, big.NewInt(100)).IsOK())

	resp = service.JoinValidatorSet(addrV2, addrV2)
	require.Equal(t, code.SetChangeDisabled, resp.Code)

	resp = service.LeaveValidatorSet(addrV1, addrV1)
	require.Equal(t, code.SetChangeDisabled, resp.Code)
}

func TestEpoch_SetSizeLimit(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	for i := 0; i < types.MaxValidatorSetSize; i++ {
		var address types.Address
		address[18] = byte(i >> 8)
		address[19] = byte(i)

		service.State().ValSet.AppendPendingActive(&valset.ValidatorInfo{
			Address:         address,
			ConsensusPubkey: testPubkey(7),
			VotingPower:     big.NewInt(1),
		})
	}

	fundAndRegister(t, service, addrV1, 1, 1000)
	require.True(t, service.AddStake(addrV1, big.NewInt(100)).IsOK())

	resp := service.JoinValidatorSet(addrV1, addrV1)
	require.Equal(t, code.ValidatorSetTooLarge, resp.Code)
}

func TestEpoch_PerformanceOutOfBounds(t *testing.T) {
	service, priv, _ := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)
	require.True(t, service.AddStake(addrV1, big.NewInt(100)).IsOK())
	require.True(t, service.JoinValidatorSet(addrV1, addrV1).IsOK())
	require.True(t, service.OnNewEpoch(priv).IsOK())

	index := service.State().ValConfig.Index(addrV1)
	outOfBounds := index + 100

	// out-of-range indices are skipped, in-range ones still count
	resp := service.UpdatePerformanceStatistics(priv, proposer(outOfBounds), []uint64{index, outOfBounds})
	require.True(t, resp.IsOK(), resp.Log)

	counters, exists := service.State().ValSet.Counters(index)
	require.True(t, exists)
	require.Equal(t, uint64(0), counters.Successful)
	require.Equal(t, uint64(1), counters.Failed)
}

func TestEpoch_LeaveAndWithdrawAfterLockup(t *testing.T) {
	service, priv, clock := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)
	require.True(t, service.AddStake(addrV1, big.NewInt(100)).IsOK())
	require.True(t, service.JoinValidatorSet(addrV1, addrV1).IsOK())
	fundAndRegister(t, service, addrV2, 2, 1000)
	require.True(t, service.AddStake(addrV2, big.NewInt(100)).IsOK())
	require.True(t, service.JoinValidatorSet(addrV2, addrV2).IsOK())
	require.True(t, service.OnNewEpoch(priv).IsOK())

	require.True(t, service.LeaveValidatorSet(addrV1, addrV1).IsOK())
	require.True(t, service.OnNewEpoch(priv).IsOK())
	require.Equal(t, types.ValidatorStateInactive, service.ValidatorState(addrV1))

	// left before the lockup ran out: stake stays put
	require.True(t, service.Unlock(addrV1, big.NewInt(50)).IsOK())
	require.True(t, service.OnNewEpoch(priv).IsOK())

	_, inactive, _, pendingInactive := service.State().Pools.Buckets(addrV1)
	require.Zero(t, inactive.Sign())
	require.Zero(t, pendingInactive.Cmp(big.NewInt(50)))

	resp := service.Withdraw(addrV1, big.NewInt(50))
	require.Equal(t, code.NoCoinsToWithdraw, resp.Code)

	clock.Seconds += 7200

	require.True(t, service.Withdraw(addrV1, big.NewInt(50)).IsOK())
	balance := service.State().Accounts.GetBalance(addrV1)
	require.Zero(t, balance.Cmp(big.NewInt(950)), "balance is %s", balance.String())
}

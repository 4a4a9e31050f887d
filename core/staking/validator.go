package staking

import (
	"fmt"

	"github.com/HelioTeam/helio-go-node/core/code"
	eventsdb "github.com/HelioTeam/helio-go-node/core/events"
	"github.com/HelioTeam/helio-go-node/core/state/valset"
	"github.com/HelioTeam/helio-go-node/core/types"
)

// RotateConsensusKey replaces the pool's consensus pubkey. The new key
// takes effect at the next epoch reconciliation; the current set keeps
// voting with its snapshot.
func (s *Staking) RotateConsensusKey(signer, pool types.Address, newPubkey types.Pubkey, proofOfPossession []byte) Response {
	if resp := s.requireOperator(signer, pool); !resp.IsOK() {
		return resp
	}

	if !s.state.ValConfig.Exists(pool) {
		return failure(code.ValidatorConfigMissing, fmt.Sprintf("no validator config for pool %s", pool.String()))
	}

	if !s.verifier.VerifyProofOfPossession(newPubkey, proofOfPossession) {
		return failure(code.InvalidPublicKey, "proof of possession does not verify against the consensus pubkey")
	}

	oldPubkey := s.state.ValConfig.ConsensusPubkey(pool)
	s.state.ValConfig.SetConsensusPubkey(pool, newPubkey)

	s.addEvent(&eventsdb.RotateConsensusKeyEvent{
		Address:   pool,
		OldPubkey: oldPubkey,
		NewPubkey: newPubkey,
	})

	return ok()
}

// UpdateNetworkAndFullnodeAddresses rewrites the pool's wire addresses.
func (s *Staking) UpdateNetworkAndFullnodeAddresses(signer, pool types.Address, networkAddresses, fullnodeAddresses []byte) Response {
	if resp := s.requireOperator(signer, pool); !resp.IsOK() {
		return resp
	}

	if !s.state.ValConfig.Exists(pool) {
		return failure(code.ValidatorConfigMissing, fmt.Sprintf("no validator config for pool %s", pool.String()))
	}

	oldNetwork, oldFullnode := s.state.ValConfig.NetworkAddresses(pool)
	s.state.ValConfig.SetNetworkAddresses(pool, networkAddresses, fullnodeAddresses)

	s.addEvent(&eventsdb.UpdateNetworkAddressesEvent{
		Address:              pool,
		OldNetworkAddresses:  oldNetwork,
		NewNetworkAddresses:  networkAddresses,
		OldFullnodeAddresses: oldFullnode,
		NewFullnodeAddresses: fullnodeAddresses,
	})

	return ok()
}

// IncreaseLockup sets the pool's lockup to now plus the recurring
// period. Lockups never shorten: it fails with LockTimeTooShort unless
// that deadline is later than the current one.
func (s *Staking) IncreaseLockup(signer types.Address) Response {
	pool, resp := s.poolByCap(signer)
	if !resp.IsOK() {
		return resp
	}

	newLockedUntil := s.now() + s.state.StakingConfig.RecurringLockupSecs()

	return s.setLockedUntil(pool, newLockedUntil)
}

// IncreaseLockupTo extends the pool's lockup to an explicit deadline,
// bounded by the recurring period from now.
func (s *Staking) IncreaseLockupTo(signer types.Address, lockedUntilSecs uint64) Response {
	pool, resp := s.poolByCap(signer)
	if !resp.IsOK() {
		return resp
	}

	if lockedUntilSecs > s.now()+s.state.StakingConfig.RecurringLockupSecs() {
		return failure(code.LockTimeTooLong, "lockup deadline exceeds the recurring lockup period")
	}

	return s.setLockedUntil(pool, lockedUntilSecs)
}

func (s *Staking) setLockedUntil(pool types.Address, newLockedUntil uint64) Response {
	oldLockedUntil := s.state.Pools.LockedUntil(pool)
	if newLockedUntil <= oldLockedUntil {
		return failure(code.LockTimeTooShort, fmt.Sprintf("lockup deadline %d does not extend the current one %d", newLockedUntil, oldLockedUntil))
	}

	s.state.Pools.SetLockedUntil(pool, newLockedUntil)

	s.addEvent(&eventsdb.IncreaseLockupEvent{
		Address:        pool,
		OldLockedUntil: oldLockedUntil,
		NewLockedUntil: newLockedUntil,
	})

	return ok()
}

// JoinValidatorSet queues an inactive pool for activation at the next
// epoch.
func (s *Staking) JoinValidatorSet(signer, pool types.Address) Response {
	if resp := s.requireOperator(signer, pool); !resp.IsOK() {
		return resp
	}

	if !s.state.StakingConfig.AllowSetChange() {
		return failure(code.SetChangeDisabled, "validator set changes are disabled")
	}

	return s.joinValidatorSetInternal(pool)
}

func (s *Staking) joinValidatorSetInternal(pool types.Address) Response {
	if s.state.ValSet.State(pool) != types.ValidatorStateInactive {
		return failure(code.AlreadyActive, fmt.Sprintf("pool %s is already in the validator set", pool.String()))
	}

	active, _, _, _ := s.state.Pools.Buckets(pool)
	minStake, maxStake := s.state.StakingConfig.StakeBounds()
	if active.Cmp(minStake) == -1 {
		return failure(code.StakeTooLow, fmt.Sprintf("active stake %s below min stake %s", active.String(), minStake.String()))
	}
	if active.Cmp(maxStake) == 1 {
		return failure(code.StakeTooHigh, fmt.Sprintf("active stake %s above max stake %s", active.String(), maxStake.String()))
	}

	pubkey := s.state.ValConfig.ConsensusPubkey(pool)
	if pubkey.IsZero() {
		return failure(code.InvalidPublicKey, fmt.Sprintf("pool %s has no consensus pubkey", pool.String()))
	}

	if s.state.ValSet.SetSize() >= types.MaxValidatorSetSize {
		return failure(code.ValidatorSetTooLarge, "validator set is full")
	}

	s.state.ValSet.AppendPendingActive(&valset.ValidatorInfo{
		Address:         pool,
		ConsensusPubkey: pubkey,
		VotingPower:     s.state.Pools.VotingPower(pool),
	})

	s.addEvent(&eventsdb.JoinValidatorSetEvent{Address: pool})
	s.logger.Info("validator queued for activation", "address", pool.String())

	return ok()
}

// LeaveValidatorSet removes the pool from the set. A pool still in
// pending_active is dropped outright; an active pool keeps voting
// until the epoch boundary through pending_inactive. The last active
// validator cannot leave.
func (s *Staking) LeaveValidatorSet(signer, pool types.Address) Response {
	if resp := s.requireOperator(signer, pool); !resp.IsOK() {
		return resp
	}

	if !s.state.StakingConfig.AllowSetChange() {
		return failure(code.SetChangeDisabled, "validator set changes are disabled")
	}

	switch s.state.ValSet.State(pool) {
	case types.ValidatorStatePendingActive:
		s.state.ValSet.RemovePendingActive(pool)
		return ok()

	case types.ValidatorStateActive:
		if len(s.state.ValSet.Active()) <= 1 {
			return failure(code.LastValidator, "cannot remove the last active validator")
		}

		s.state.ValSet.MoveActiveToPendingInactive(pool)
		s.addEvent(&eventsdb.LeaveValidatorSetEvent{Address: pool})
		s.logger.Info("validator queued for deactivation", "address", pool.String())

		return ok()

	default:
		return failure(code.NotValidator, fmt.Sprintf("pool %s is not in the validator set", pool.String()))
	}
}

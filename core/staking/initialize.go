package staking

import (
	"fmt"
	"math/big"

	"github.com/HelioTeam/helio-go-node/core/code"
	eventsdb "github.com/HelioTeam/helio-go-node/core/events"
	"github.com/HelioTeam/helio-go-node/core/state/pools"
	"github.com/HelioTeam/helio-go-node/core/types"
)

// InitializeValidator registers the signer as a validator candidate:
// an empty stake pool with the signer as owner, operator and voter,
// plus its consensus config. The proof of possession must verify
// against the consensus pubkey.
func (s *Staking) InitializeValidator(signer types.Address, consensusPubkey types.Pubkey, proofOfPossession []byte, networkAddresses, fullnodeAddresses []byte) Response {
	if s.state.Pools.Exists(signer) {
		return failure(code.AlreadyRegistered, fmt.Sprintf("stake pool already exists for %s", signer.String()))
	}

	if !s.verifier.VerifyProofOfPossession(consensusPubkey, proofOfPossession) {
		return failure(code.InvalidPublicKey, "proof of possession does not verify against the consensus pubkey")
	}

	s.state.Pools.Create(signer, signer, signer)
	s.state.ValConfig.Create(signer, consensusPubkey, networkAddresses, fullnodeAddresses)

	s.addEvent(&eventsdb.RegisterValidatorCandidateEvent{
		Address:         signer,
		ConsensusPubkey: consensusPubkey,
	})
	s.logger.Info("validator candidate registered", "address", signer.String())

	return ok()
}

// InitializeOwnerOnly creates a stake pool without a consensus key,
// delegating operation and voting from the start. The consensus config
// is registered empty and filled in later via RotateConsensusKey.
func (s *Staking) InitializeOwnerOnly(signer types.Address, initialStake *big.Int, operator, voter types.Address) Response {
	if s.state.Pools.Exists(signer) {
		return failure(code.AlreadyRegistered, fmt.Sprintf("stake pool already exists for %s", signer.String()))
	}

	if initialStake.Sign() < 0 {
		return failure(code.InvalidStakeAmount, "initial stake must not be negative")
	}

	if s.state.Accounts.GetBalance(signer).Cmp(initialStake) == -1 {
		return failure(code.InsufficientFunds, fmt.Sprintf("insufficient balance to stake %s", initialStake.String()))
	}

	_, maxStake := s.state.StakingConfig.StakeBounds()
	if initialStake.Cmp(maxStake) == 1 {
		return failure(code.StakeExceedsMax, fmt.Sprintf("initial stake %s exceeds max stake %s", initialStake.String(), maxStake.String()))
	}

	s.state.Pools.Create(signer, operator, voter)
	s.state.ValConfig.Create(signer, types.Pubkey{}, nil, nil)

	s.addEvent(&eventsdb.RegisterValidatorCandidateEvent{Address: signer})

	if initialStake.Sign() == 1 {
		s.state.Accounts.SubBalance(signer, initialStake)
		s.state.Pools.DepositActive(signer, initialStake)

		s.addEvent(&eventsdb.AddStakeEvent{
			Address: signer,
			Amount:  initialStake.String(),
		})
	}

	s.logger.Info("stake owner registered", "address", signer.String(), "operator", operator.String())

	return ok()
}

// ExtractOwnerCap removes the owner capability from the signer and
// hands it back in flight. Until deposited again, stake-bearing calls
// on the pool are impossible.
func (s *Staking) ExtractOwnerCap(signer types.Address) (*pools.OwnerCapability, Response) {
	cap, found := s.state.Pools.ExtractOwnerCap(signer)
	if !found {
		return nil, failure(code.OwnerCapMissing, fmt.Sprintf("no owner capability held by %s", signer.String()))
	}

	return cap, ok()
}

// DepositOwnerCap parks an in-flight owner capability with the signer.
func (s *Staking) DepositOwnerCap(signer types.Address, cap *pools.OwnerCapability) Response {
	if cap == nil {
		return failure(code.OwnerCapMissing, "no capability to deposit")
	}

	if !s.state.Pools.DepositOwnerCap(signer, cap) {
		return failure(code.AlreadyRegistered, fmt.Sprintf("%s already holds an owner capability", signer.String()))
	}

	return ok()
}

// SetOperator changes the address allowed to run the pool's validator.
func (s *Staking) SetOperator(signer, newOperator types.Address) Response {
	pool, resp := s.poolByCap(signer)
	if !resp.IsOK() {
		return resp
	}

	s.state.Pools.SetOperator(pool, newOperator)

	s.addEvent(&eventsdb.SetOperatorEvent{
		Address:     pool,
		NewOperator: newOperator,
	})

	return ok()
}

// SetDelegatedVoter changes the address voting with the pool's stake.
func (s *Staking) SetDelegatedVoter(signer, newVoter types.Address) Response {
	pool, resp := s.poolByCap(signer)
	if !resp.IsOK() {
		return resp
	}

	s.state.Pools.SetVoter(pool, newVoter)

	return ok()
}

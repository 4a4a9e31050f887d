package staking

import (
	"math/big"

	"github.com/HelioTeam/helio-go-node/core/code"
	"github.com/HelioTeam/helio-go-node/core/types"
)

// GenesisValidator describes one validator of the bootstrap set.
type GenesisValidator struct {
	Owner             types.Address
	ConsensusPubkey   types.Pubkey
	ProofOfPossession []byte
	NetworkAddresses  []byte
	FullnodeAddresses []byte
	Stake             *big.Int
}

// Initialize sets the staking policy and issues the framework
// privilege and the mint authority. Runs exactly once.
func (s *Staking) Initialize(minStake, maxStake *big.Int, recurringLockupSecs uint64, allowSetChange bool, rewardRate, rewardRateDenom uint64) (*Privilege, Response) {
	if s.state.App.IsInitialized() {
		return nil, failure(code.AlreadyInitialized, "staking module is already initialized")
	}

	if minStake.Cmp(maxStake) == 1 {
		return nil, failure(code.InvalidStakeAmount, "min stake exceeds max stake")
	}
	if rewardRateDenom == 0 {
		return nil, failure(code.InvalidStakeAmount, "reward rate denominator must be positive")
	}

	s.state.StakingConfig.SetStakeBounds(minStake, maxStake)
	s.state.StakingConfig.SetRecurringLockupSecs(recurringLockupSecs)
	s.state.StakingConfig.SetAllowSetChange(allowSetChange)
	s.state.StakingConfig.SetRewardRate(rewardRate, rewardRateDenom)

	s.mintAuth = s.state.Accounts.IssueMintAuthority()
	s.state.App.SetInitialized()

	s.logger.Info("staking initialized",
		"min_stake", minStake.String(),
		"max_stake", maxStake.String(),
		"recurring_lockup_secs", recurringLockupSecs,
	)

	return &Privilege{valid: true}, ok()
}

// CreateInitializeValidators mints the bootstrap stakes, registers the
// genesis validators and activates them through a first epoch.
func (s *Staking) CreateInitializeValidators(priv *Privilege, validators []GenesisValidator) Response {
	if resp := s.requirePrivilege(priv); !resp.IsOK() {
		return resp
	}

	for _, validator := range validators {
		s.state.Accounts.Mint(s.mintAuth, validator.Stake)
		s.state.Accounts.AddBalance(validator.Owner, validator.Stake)

		if resp := s.InitializeValidator(validator.Owner, validator.ConsensusPubkey, validator.ProofOfPossession, validator.NetworkAddresses, validator.FullnodeAddresses); !resp.IsOK() {
			return resp
		}
		if resp := s.IncreaseLockup(validator.Owner); !resp.IsOK() {
			return resp
		}
		if resp := s.AddStake(validator.Owner, validator.Stake); !resp.IsOK() {
			return resp
		}
		if resp := s.joinValidatorSetInternal(validator.Owner); !resp.IsOK() {
			return resp
		}
	}

	return s.OnNewEpoch(priv)
}

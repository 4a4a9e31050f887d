package types

import (
	"fmt"

	"github.com/HelioTeam/helio-go-node/helpers"
)

// AppState is the exportable genesis document of the staking core.
type AppState struct {
	Note             string            `json:"note"`
	StakingConfig    StakingConfig     `json:"staking_config"`
	Pools            []Pool            `json:"pools,omitempty"`
	ValidatorConfigs []ValidatorConfig `json:"validator_configs,omitempty"`
	ActiveValidators []Address         `json:"active_validators,omitempty"`
	PendingActive    []Address         `json:"pending_active,omitempty"`
	PendingInactive  []Address         `json:"pending_inactive,omitempty"`
	Accounts         []Account         `json:"accounts,omitempty"`
	Epoch            uint64            `json:"epoch"`
	LastBlockTime    uint64            `json:"last_block_time"`
	TotalMinted      string            `json:"total_minted"`
}

// StakingConfig is the on-chain staking policy record.
type StakingConfig struct {
	MinStake            string `json:"min_stake"`
	MaxStake            string `json:"max_stake"`
	RecurringLockupSecs uint64 `json:"recurring_lockup_secs"`
	AllowSetChange      bool   `json:"allow_set_change"`
	RewardRate          uint64 `json:"reward_rate"`
	RewardRateDenom     uint64 `json:"reward_rate_denominator"`
}

// Pool is the genesis form of a stake pool.
type Pool struct {
	Address         Address `json:"address"`
	Active          string  `json:"active"`
	Inactive        string  `json:"inactive"`
	PendingActive   string  `json:"pending_active"`
	PendingInactive string  `json:"pending_inactive"`
	LockedUntil     uint64  `json:"locked_until"`
	Operator        Address `json:"operator"`
	Voter           Address `json:"voter"`
	CapHolder       Address `json:"cap_holder"`
}

// ValidatorConfig is the genesis form of a validator's consensus config.
type ValidatorConfig struct {
	Address           Address `json:"address"`
	ConsensusPubkey   Pubkey  `json:"consensus_pubkey"`
	NetworkAddresses  []byte  `json:"network_addresses"`
	FullnodeAddresses []byte  `json:"fullnode_addresses"`
	Index             uint64  `json:"index"`
}

// Account is a stake-token balance row.
type Account struct {
	Address Address `json:"address"`
	Balance string  `json:"balance"`
}

// Verify performs basic consistency checks of the state
func (s *AppState) Verify() error {
	if !helpers.IsValidBigInt(s.TotalMinted) {
		return fmt.Errorf("total minted is not valid BigInt")
	}

	if !helpers.IsValidBigInt(s.StakingConfig.MinStake) || !helpers.IsValidBigInt(s.StakingConfig.MaxStake) {
		return fmt.Errorf("staking config stake bounds are not valid BigInt")
	}

	pools := map[Address]struct{}{}
	for _, pool := range s.Pools {
		if _, exists := pools[pool.Address]; exists {
			return fmt.Errorf("duplicated pool %s", pool.Address.String())
		}
		pools[pool.Address] = struct{}{}

		for _, bucket := range []string{pool.Active, pool.Inactive, pool.PendingActive, pool.PendingInactive} {
			if !helpers.IsValidBigInt(bucket) {
				return fmt.Errorf("pool %s has invalid bucket value", pool.Address.String())
			}
		}
	}

	members := map[Address]struct{}{}
	for _, list := range [][]Address{s.ActiveValidators, s.PendingActive, s.PendingInactive} {
		for _, addr := range list {
			if _, exists := members[addr]; exists {
				return fmt.Errorf("address %s appears in more than one set queue", addr.String())
			}
			members[addr] = struct{}{}

			if _, exists := pools[addr]; !exists {
				return fmt.Errorf("set member %s has no pool", addr.String())
			}
		}
	}

	for _, config := range s.ValidatorConfigs {
		if _, exists := pools[config.Address]; !exists {
			return fmt.Errorf("validator config %s has no pool", config.Address.String())
		}
	}

	accounts := map[Address]struct{}{}
	for _, acc := range s.Accounts {
		if _, exists := accounts[acc.Address]; exists {
			return fmt.Errorf("duplicated account %s", acc.Address.String())
		}
		accounts[acc.Address] = struct{}{}

		if !helpers.IsValidBigInt(acc.Balance) {
			return fmt.Errorf("not valid balance for account %s", acc.Address.String())
		}
	}

	return nil
}

package stakingconfig

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/HelioTeam/helio-go-node/helpers"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
)

const mainPrefix = byte('c')

type RConfig interface {
	Export(state *types.AppState)
	StakeBounds() (*big.Int, *big.Int)
	RecurringLockupSecs() uint64
	AllowSetChange() bool
	RewardRate() (uint64, uint64)
}

// Config is the singleton staking policy record.
type Config struct {
	model   *Model
	isDirty bool

	db atomic.Value
	mx sync.Mutex
}

func NewConfig(db *iavl.ImmutableTree) *Config {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Config{db: immutableTree}
}

func (c *Config) immutableTree() *iavl.ImmutableTree {
	db := c.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (c *Config) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	c.db.Store(immutableTree)
}

func (c *Config) Commit(db *iavl.MutableTree, version int64) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if !c.isDirty {
		return nil
	}

	c.isDirty = false

	data, err := rlp.EncodeToBytes(c.model)
	if err != nil {
		return fmt.Errorf("can't encode staking config: %s", err)
	}

	db.Set([]byte{mainPrefix}, data)

	return nil
}

func (c *Config) StakeBounds() (*big.Int, *big.Int) {
	model := c.getOrNew()

	return model.getMinStake(), model.getMaxStake()
}

func (c *Config) SetStakeBounds(minStake, maxStake *big.Int) {
	c.getOrNew().setStakeBounds(minStake, maxStake)
}

func (c *Config) RecurringLockupSecs() uint64 {
	return c.getOrNew().getRecurringLockupSecs()
}

func (c *Config) SetRecurringLockupSecs(secs uint64) {
	c.getOrNew().setRecurringLockupSecs(secs)
}

func (c *Config) AllowSetChange() bool {
	return c.getOrNew().getAllowSetChange()
}

func (c *Config) SetAllowSetChange(allow bool) {
	c.getOrNew().setAllowSetChange(allow)
}

func (c *Config) RewardRate() (uint64, uint64) {
	return c.getOrNew().getRewardRate()
}

func (c *Config) SetRewardRate(rate, denom uint64) {
	c.getOrNew().setRewardRate(rate, denom)
}

func (c *Config) get() *Model {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.model != nil {
		return c.model
	}

	_, enc := c.immutableTree().Get([]byte{mainPrefix})
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := rlp.DecodeBytes(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode staking config: %s", err))
	}

	c.model = model
	c.model.markDirty = c.markDirty
	return c.model
}

func (c *Config) getOrNew() *Model {
	model := c.get()
	if model == nil {
		model = &Model{
			MinStake:  big.NewInt(0),
			MaxStake:  big.NewInt(0),
			markDirty: c.markDirty,
		}
		c.mx.Lock()
		c.model = model
		c.mx.Unlock()
	}

	return model
}

func (c *Config) markDirty() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.isDirty = true
}

func (c *Config) Export(state *types.AppState) {
	minStake, maxStake := c.StakeBounds()
	rate, denom := c.RewardRate()

	state.StakingConfig = types.StakingConfig{
		MinStake:            minStake.String(),
		MaxStake:            maxStake.String(),
		RecurringLockupSecs: c.RecurringLockupSecs(),
		AllowSetChange:      c.AllowSetChange(),
		RewardRate:          rate,
		RewardRateDenom:     denom,
	}
}

// Import loads the genesis staking policy.
func (c *Config) Import(config types.StakingConfig) {
	c.SetStakeBounds(helpers.StringToBigInt(config.MinStake), helpers.StringToBigInt(config.MaxStake))
	c.SetRecurringLockupSecs(config.RecurringLockupSecs)
	c.SetAllowSetChange(config.AllowSetChange)
	c.SetRewardRate(config.RewardRate, config.RewardRateDenom)
}

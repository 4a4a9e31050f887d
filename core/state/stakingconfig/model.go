package stakingconfig

import (
	"math/big"
	"sync"
)

type Model struct {
	MinStake            *big.Int
	MaxStake            *big.Int
	RecurringLockupSecs uint64
	AllowSetChange      bool
	RewardRate          uint64
	RewardRateDenom     uint64

	markDirty func()
	mx        sync.RWMutex
}

func (model *Model) getMinStake() *big.Int {
	model.mx.RLock()
	defer model.mx.RUnlock()

	if model.MinStake == nil {
		return big.NewInt(0)
	}

	return model.MinStake
}

func (model *Model) getMaxStake() *big.Int {
	model.mx.RLock()
	defer model.mx.RUnlock()

	if model.MaxStake == nil {
		return big.NewInt(0)
	}

	return model.MaxStake
}

func (model *Model) setStakeBounds(minStake, maxStake *big.Int) {
	model.mx.Lock()
	defer model.mx.Unlock()

	model.MinStake = minStake
	model.MaxStake = maxStake
	model.markDirty()
}

func (model *Model) getRecurringLockupSecs() uint64 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.RecurringLockupSecs
}

func (model *Model) setRecurringLockupSecs(secs uint64) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.RecurringLockupSecs != secs {
		model.markDirty()
	}
	model.RecurringLockupSecs = secs
}

func (model *Model) getAllowSetChange() bool {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.AllowSetChange
}

func (model *Model) setAllowSetChange(allow bool) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.AllowSetChange != allow {
		model.markDirty()
	}
	model.AllowSetChange = allow
}

func (model *Model) getRewardRate() (uint64, uint64) {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.RewardRate, model.RewardRateDenom
}

func (model *Model) setRewardRate(rate, denom uint64) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.RewardRate != rate || model.RewardRateDenom != denom {
		model.markDirty()
	}
	model.RewardRate = rate
	model.RewardRateDenom = denom
}

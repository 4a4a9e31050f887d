package app

import (
	"math/big"
	"sync"
)

type Model struct {
	TotalMinted   *big.Int
	Epoch         uint64
	LastBlockTime uint64
	Initialized   bool

	markDirty func()
	mx        sync.RWMutex
}

func (model *Model) getTotalMinted() *big.Int {
	model.mx.RLock()
	defer model.mx.RUnlock()

	if model.TotalMinted == nil {
		return big.NewInt(0)
	}

	return model.TotalMinted
}

func (model *Model) setTotalMinted(totalMinted *big.Int) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.TotalMinted == nil || model.TotalMinted.Cmp(totalMinted) != 0 {
		model.markDirty()
	}
	model.TotalMinted = totalMinted
}

func (model *Model) getEpoch() uint64 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.Epoch
}

func (model *Model) setEpoch(epoch uint64) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.Epoch != epoch {
		model.markDirty()
	}
	model.Epoch = epoch
}

func (model *Model) getLastBlockTime() uint64 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.LastBlockTime
}

func (model *Model) setLastBlockTime(timestamp uint64) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.LastBlockTime != timestamp {
		model.markDirty()
	}
	model.LastBlockTime = timestamp
}

func (model *Model) isInitialized() bool {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.Initialized
}

func (model *Model) setInitialized() {
	model.mx.Lock()
	defer model.mx.Unlock()

	if !model.Initialized {
		model.markDirty()
	}
	model.Initialized = true
}

package pools

import (
	"math/big"
	"sync"

	"github.com/HelioTeam/helio-go-node/core/types"
)

// Model is one stake pool: four time-phased buckets, the lockup deadline
// and the three role addresses. CapHolder tracks where the pool's owner
// capability currently resides; the zero address means it is extracted
// and in flight.
type Model struct {
	Active          *big.Int
	Inactive        *big.Int
	PendingActive   *big.Int
	PendingInactive *big.Int
	LockedUntil     uint64
	Operator        types.Address
	Voter           types.Address
	CapHolder       types.Address

	address   types.Address
	markDirty func(types.Address)
	mx        sync.RWMutex
}

func (model *Model) getBuckets() (active, inactive, pendingActive, pendingInactive *big.Int) {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.Active, model.Inactive, model.PendingActive, model.PendingInactive
}

func (model *Model) addActive(amount *big.Int) {
	model.mx.Lock()
	defer model.mx.Unlock()

	model.Active = big.NewInt(0).Add(model.Active, amount)
	model.markDirty(model.address)
}

func (model *Model) addPendingActive(amount *big.Int) {
	model.mx.Lock()
	defer model.mx.Unlock()

	model.PendingActive = big.NewInt(0).Add(model.PendingActive, amount)
	model.markDirty(model.address)
}

func (model *Model) addPendingInactive(amount *big.Int) {
	model.mx.Lock()
	defer model.mx.Unlock()

	model.PendingInactive = big.NewInt(0).Add(model.PendingInactive, amount)
	model.markDirty(model.address)
}

// moveActiveToPendingInactive reports false when active holds less than
// amount.
func (model *Model) moveActiveToPendingInactive(amount *big.Int) bool {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.Active.Cmp(amount) < 0 {
		return false
	}

	model.Active = big.NewInt(0).Sub(model.Active, amount)
	model.PendingInactive = big.NewInt(0).Add(model.PendingInactive, amount)
	model.markDirty(model.address)

	return true
}

// promotePendingActive empties pending_active into active and returns
// the moved value.
func (model *Model) promotePendingActive() *big.Int {
	model.mx.Lock()
	defer model.mx.Unlock()

	moved := model.PendingActive
	if moved.Sign() == 0 {
		return big.NewInt(0)
	}

	model.PendingActive = big.NewInt(0)
	model.Active = big.NewInt(0).Add(model.Active, moved)
	model.markDirty(model.address)

	return moved
}

// releasePendingInactive empties pending_inactive into inactive and
// returns the moved value.
func (model *Model) releasePendingInactive() *big.Int {
	model.mx.Lock()
	defer model.mx.Unlock()

	moved := model.PendingInactive
	if moved.Sign() == 0 {
		return big.NewInt(0)
	}

	model.PendingInactive = big.NewInt(0)
	model.Inactive = big.NewInt(0).Add(model.Inactive, moved)
	model.markDirty(model.address)

	return moved
}

func (model *Model) subInactive(amount *big.Int) bool {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.Inactive.Cmp(amount) < 0 {
		return false
	}

	model.Inactive = big.NewInt(0).Sub(model.Inactive, amount)
	model.markDirty(model.address)

	return true
}

func (model *Model) getLockedUntil() uint64 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.LockedUntil
}

func (model *Model) setLockedUntil(lockedUntil uint64) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.LockedUntil != lockedUntil {
		model.markDirty(model.address)
	}
	model.LockedUntil = lockedUntil
}

func (model *Model) getOperator() types.Address {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.Operator
}

func (model *Model) setOperator(operator types.Address) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.Operator != operator {
		model.markDirty(model.address)
	}
	model.Operator = operator
}

func (model *Model) getVoter() types.Address {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.Voter
}

func (model *Model) setVoter(voter types.Address) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.Voter != voter {
		model.markDirty(model.address)
	}
	model.Voter = voter
}

func (model *Model) getCapHolder() types.Address {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.CapHolder
}

func (model *Model) setCapHolder(holder types.Address) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.CapHolder != holder {
		model.markDirty(model.address)
	}
	model.CapHolder = holder
}

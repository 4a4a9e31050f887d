package accounts

import (
	"math/big"
	"sync"

	"github.com/HelioTeam/helio-go-node/core/types"
)

type Model struct {
	Balance *big.Int

	address   types.Address
	markDirty func(types.Address)
	mx        sync.RWMutex
}

func (model *Model) getBalance() *big.Int {
	model.mx.RLock()
	defer model.mx.RUnlock()

	if model.Balance == nil {
		return big.NewInt(0)
	}

	return model.Balance
}

func (model *Model) setBalance(balance *big.Int) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.Balance == nil || model.Balance.Cmp(balance) != 0 {
		model.markDirty(model.address)
	}
	model.Balance = balance
}

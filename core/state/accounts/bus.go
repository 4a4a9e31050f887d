package accounts

import (
	"math/big"

	"github.com/HelioTeam/helio-go-node/core/types"
)

type Bus struct {
	accounts *Accounts
}

func NewBus(accounts *Accounts) *Bus {
	return &Bus{accounts: accounts}
}

func (b *Bus) AddBalance(address types.Address, amount *big.Int) {
	b.accounts.AddBalance(address, amount)
}

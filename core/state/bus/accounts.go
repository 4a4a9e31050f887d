package bus

import (
	"math/big"

	"github.com/HelioTeam/helio-go-node/core/types"
)

type Accounts interface {
	AddBalance(types.Address, *big.Int)
}

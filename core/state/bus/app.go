package bus

import (
	"math/big"
)

type App interface {
	AddTotalMinted(*big.Int)
}

package bus

import (
	"math/big"
)

type Checker interface {
	AddCoin(*big.Int, ...string)
	AddVolume(*big.Int)
}

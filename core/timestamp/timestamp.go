package timestamp

import (
	"time"
)

// Oracle supplies the chain time in unix seconds. The node feeds it from
// block headers; tests feed it by hand.
type Oracle interface {
	NowSeconds() uint64
}

type systemClock struct{}

func NewSystemClock() Oracle {
	return systemClock{}
}

func (systemClock) NowSeconds() uint64 {
	return uint64(time.Now().Unix())
}

// Fixed is an oracle pinned to a settable instant.
type Fixed struct {
	Seconds uint64
}

func (f *Fixed) NowSeconds() uint64 {
	return f.Seconds
}

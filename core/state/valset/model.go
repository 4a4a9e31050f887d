package valset

import (
	"math/big"

	"github.com/HelioTeam/helio-go-node/core/types"
)

// ValidatorInfo is one row of the validator set: the pool address, the
// consensus key snapshot taken when the row was built and the voting
// power locked in for the epoch.
type ValidatorInfo struct {
	Address         types.Address
	ConsensusPubkey types.Pubkey
	VotingPower     *big.Int
}

func (info *ValidatorInfo) Copy() *ValidatorInfo {
	return &ValidatorInfo{
		Address:         info.Address,
		ConsensusPubkey: info.ConsensusPubkey,
		VotingPower:     big.NewInt(0).Set(info.VotingPower),
	}
}

type setModel struct {
	Active          []*ValidatorInfo
	PendingActive   []*ValidatorInfo
	PendingInactive []*ValidatorInfo
}

// Counters is the per-epoch proposal record of one active validator,
// addressed by its dense validator index.
type Counters struct {
	Successful uint64
	Failed     uint64
}

type performanceModel struct {
	Validators []*Counters
}

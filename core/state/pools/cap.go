package pools

import (
	"github.com/HelioTeam/helio-go-node/core/types"
)

// OwnerCapability is the bearer token of one stake pool. It is minted at
// pool creation, moved between holders via ExtractOwnerCap and
// DepositOwnerCap, and never derived from public state.
type OwnerCapability struct {
	pool types.Address
}

func (cap *OwnerCapability) PoolAddress() types.Address {
	return cap.pool
}

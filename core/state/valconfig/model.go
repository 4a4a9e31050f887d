package valconfig

import (
	"sync"

	"github.com/HelioTeam/helio-go-node/core/types"
)

type Model struct {
	ConsensusPubkey   types.Pubkey
	NetworkAddresses  []byte
	FullnodeAddresses []byte
	Index             uint64

	address   types.Address
	markDirty func(types.Address)
	mx        sync.RWMutex
}

func (model *Model) getConsensusPubkey() types.Pubkey {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.ConsensusPubkey
}

func (model *Model) setConsensusPubkey(pubkey types.Pubkey) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if !model.ConsensusPubkey.Equals(pubkey) {
		model.markDirty(model.address)
	}
	model.ConsensusPubkey = pubkey
}

func (model *Model) getNetworkAddresses() ([]byte, []byte) {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.NetworkAddresses, model.FullnodeAddresses
}

func (model *Model) setNetworkAddresses(network, fullnode []byte) {
	model.mx.Lock()
	defer model.mx.Unlock()

	model.NetworkAddresses = network
	model.FullnodeAddresses = fullnode
	model.markDirty(model.address)
}

func (model *Model) getIndex() uint64 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.Index
}

func (model *Model) setIndex(index uint64) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.Index != index {
		model.markDirty(model.address)
	}
	model.Index = index
}

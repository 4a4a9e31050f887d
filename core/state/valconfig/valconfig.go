package valconfig

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
)

const mainPrefix = byte('n')

type RValConfig interface {
	Export(state *types.AppState)
	Exists(address types.Address) bool
	ConsensusPubkey(address types.Address) types.Pubkey
	NetworkAddresses(address types.Address) ([]byte, []byte)
	Index(address types.Address) uint64
}

// ValConfig keeps the consensus-facing record of every registered
// validator candidate: its BLS key, its wire addresses and its cached
// position in the active set.
type ValConfig struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	db atomic.Value

	lock sync.RWMutex
}

func NewValConfig(db *iavl.ImmutableTree) *ValConfig {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &ValConfig{
		db:    immutableTree,
		list:  map[types.Address]*Model{},
		dirty: map[types.Address]struct{}{},
	}
}

func (v *ValConfig) immutableTree() *iavl.ImmutableTree {
	db := v.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (v *ValConfig) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	v.db.Store(immutableTree)
}

func (v *ValConfig) Commit(db *iavl.MutableTree, version int64) error {
	v.lock.Lock()
	dirties := v.getOrderedDirty()
	v.lock.Unlock()

	for _, address := range dirties {
		config := v.getFromMap(address)

		v.lock.Lock()
		delete(v.dirty, address)
		v.lock.Unlock()

		data, err := rlp.EncodeToBytes(config)
		if err != nil {
			return fmt.Errorf("can't encode validator config %s: %v", address.String(), err)
		}

		db.Set(getPath(address), data)
	}

	return nil
}

func (v *ValConfig) Exists(address types.Address) bool {
	return v.get(address) != nil
}

func (v *ValConfig) ConsensusPubkey(address types.Address) types.Pubkey {
	config := v.get(address)
	if config == nil {
		return types.Pubkey{}
	}

	return config.getConsensusPubkey()
}

func (v *ValConfig) NetworkAddresses(address types.Address) ([]byte, []byte) {
	config := v.get(address)
	if config == nil {
		return nil, nil
	}

	return config.getNetworkAddresses()
}

func (v *ValConfig) Index(address types.Address) uint64 {
	config := v.get(address)
	if config == nil {
		return 0
	}

	return config.getIndex()
}

// Create registers the consensus record of a new candidate.
func (v *ValConfig) Create(address types.Address, pubkey types.Pubkey, network, fullnode []byte) {
	config := &Model{
		ConsensusPubkey:   pubkey,
		NetworkAddresses:  network,
		FullnodeAddresses: fullnode,
		address:           address,
		markDirty:         v.markDirty,
	}
	v.setToMap(address, config)
	v.markDirty(address)
}

func (v *ValConfig) SetConsensusPubkey(address types.Address, pubkey types.Pubkey) {
	config := v.get(address)
	if config == nil {
		return
	}

	config.setConsensusPubkey(pubkey)
}

func (v *ValConfig) SetNetworkAddresses(address types.Address, network, fullnode []byte) {
	config := v.get(address)
	if config == nil {
		return
	}

	config.setNetworkAddresses(network, fullnode)
}

func (v *ValConfig) SetIndex(address types.Address, index uint64) {
	config := v.get(address)
	if config == nil {
		return
	}

	config.setIndex(index)
}

func (v *ValConfig) get(address types.Address) *Model {
	if config := v.getFromMap(address); config != nil {
		return config
	}

	_, enc := v.immutableTree().Get(getPath(address))
	if len(enc) == 0 {
		return nil
	}

	config := &Model{}
	if err := rlp.DecodeBytes(enc, config); err != nil {
		panic(fmt.Sprintf("failed to decode validator config %s: %s", address.String(), err))
	}

	config.address = address
	config.markDirty = v.markDirty
	v.setToMap(address, config)

	return config
}

func (v *ValConfig) markDirty(address types.Address) {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.dirty[address] = struct{}{}
}

func (v *ValConfig) getOrderedDirty() []types.Address {
	keys := make([]types.Address, 0, len(v.dirty))
	for k := range v.dirty {
		keys = append(keys, k)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == -1
	})

	return keys
}

func (v *ValConfig) getFromMap(address types.Address) *Model {
	v.lock.RLock()
	defer v.lock.RUnlock()

	return v.list[address]
}

func (v *ValConfig) setToMap(address types.Address, model *Model) {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.list[address] = model
}

func (v *ValConfig) Export(state *types.AppState) {
	v.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		if len(key) != 1+types.AddressLength {
			return false
		}

		address := types.BytesToAddress(key[1:])
		config := v.get(address)
		if config == nil {
			return false
		}

		network, fullnode := config.getNetworkAddresses()
		state.ValidatorConfigs = append(state.ValidatorConfigs, types.ValidatorConfig{
			Address:           address,
			ConsensusPubkey:   config.getConsensusPubkey(),
			NetworkAddresses:  network,
			FullnodeAddresses: fullnode,
			Index:             config.getIndex(),
		})

		return false
	})
}

// Import loads the genesis validator configs.
func (v *ValConfig) Import(configs []types.ValidatorConfig) {
	for _, config := range configs {
		v.Create(config.Address, config.ConsensusPubkey, config.NetworkAddresses, config.FullnodeAddresses)
		v.SetIndex(config.Address, config.Index)
	}
}

func getPath(address types.Address) []byte {
	return append([]byte{mainPrefix}, address.Bytes()...)
}

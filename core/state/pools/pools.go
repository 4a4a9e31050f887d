package pools

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	eventsdb "github.com/HelioTeam/helio-go-node/core/events"
	"github.com/HelioTeam/helio-go-node/core/state/bus"
	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/HelioTeam/helio-go-node/helpers"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	mainPrefix   = byte('p')
	holderPrefix = byte('o')
)

type RPools interface {
	Export(state *types.AppState)
	Exists(address types.Address) bool
	Buckets(address types.Address) (active, inactive, pendingActive, pendingInactive *big.Int)
	LockedUntil(address types.Address) uint64
	Operator(address types.Address) types.Address
	Voter(address types.Address) types.Address
	VotingPower(address types.Address) *big.Int
	TotalStaked(address types.Address) *big.Int
	PoolOf(holder types.Address) (types.Address, bool)
}

// Pools keeps every stake pool and the registry of owner-capability
// holders.
type Pools struct {
	list    map[types.Address]*Model
	dirty   map[types.Address]struct{}
	holders map[types.Address]*holderRow

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

type holderRow struct {
	pool    types.Address
	deleted bool
	dirty   bool
}

func NewPools(stateBus *bus.Bus, db *iavl.ImmutableTree) *Pools {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Pools{
		db:      immutableTree,
		bus:     stateBus,
		list:    map[types.Address]*Model{},
		dirty:   map[types.Address]struct{}{},
		holders: map[types.Address]*holderRow{},
	}
}

func (p *Pools) immutableTree() *iavl.ImmutableTree {
	db := p.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (p *Pools) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	p.db.Store(immutableTree)
}

func (p *Pools) Commit(db *iavl.MutableTree, version int64) error {
	p.lock.Lock()
	dirties := p.getOrderedDirty()
	p.lock.Unlock()

	for _, address := range dirties {
		pool := p.getFromMap(address)

		p.lock.Lock()
		delete(p.dirty, address)
		p.lock.Unlock()

		data, err := rlp.EncodeToBytes(pool)
		if err != nil {
			return fmt.Errorf("can't encode stake pool %s: %v", address.String(), err)
		}

		db.Set(getPath(address), data)
	}

	p.lock.Lock()
	defer p.lock.Unlock()
	for holder, row := range p.holders {
		if !row.dirty {
			continue
		}
		row.dirty = false

		if row.deleted {
			db.Remove(getHolderPath(holder))
			delete(p.holders, holder)
			continue
		}

		db.Set(getHolderPath(holder), row.pool.Bytes())
	}

	return nil
}

// Create registers a new empty pool and mints its owner capability to
// the owner address.
func (p *Pools) Create(address, operator, voter types.Address) *OwnerCapability {
	pool := &Model{
		Active:          big.NewInt(0),
		Inactive:        big.NewInt(0),
		PendingActive:   big.NewInt(0),
		PendingInactive: big.NewInt(0),
		Operator:        operator,
		Voter:           voter,
		CapHolder:       address,
		address:         address,
		markDirty:       p.markDirty,
	}
	p.setToMap(address, pool)
	p.markDirty(address)
	p.setHolder(address, address)

	return &OwnerCapability{pool: address}
}

func (p *Pools) Exists(address types.Address) bool {
	return p.get(address) != nil
}

func (p *Pools) Buckets(address types.Address) (active, inactive, pendingActive, pendingInactive *big.Int) {
	pool := p.get(address)
	if pool == nil {
		zero := big.NewInt(0)
		return zero, zero, zero, zero
	}

	return pool.getBuckets()
}

// VotingPower is active + pending_inactive, the stake counted for the
// current epoch.
func (p *Pools) VotingPower(address types.Address) *big.Int {
	active, _, _, pendingInactive := p.Buckets(address)

	return big.NewInt(0).Add(active, pendingInactive)
}

// TotalStaked is active + pending_active + pending_inactive, the
// quantity bounded by max_stake.
func (p *Pools) TotalStaked(address types.Address) *big.Int {
	active, _, pendingActive, pendingInactive := p.Buckets(address)

	total := big.NewInt(0).Add(active, pendingActive)
	return total.Add(total, pendingInactive)
}

func (p *Pools) LockedUntil(address types.Address) uint64 {
	pool := p.get(address)
	if pool == nil {
		return 0
	}

	return pool.getLockedUntil()
}

func (p *Pools) SetLockedUntil(address types.Address, lockedUntil uint64) {
	if pool := p.get(address); pool != nil {
		pool.setLockedUntil(lockedUntil)
	}
}

func (p *Pools) Operator(address types.Address) types.Address {
	pool := p.get(address)
	if pool == nil {
		return types.Address{}
	}

	return pool.getOperator()
}

func (p *Pools) SetOperator(address, operator types.Address) {
	if pool := p.get(address); pool != nil {
		pool.setOperator(operator)
	}
}

func (p *Pools) Voter(address types.Address) types.Address {
	pool := p.get(address)
	if pool == nil {
		return types.Address{}
	}

	return pool.getVoter()
}

func (p *Pools) SetVoter(address, voter types.Address) {
	if pool := p.get(address); pool != nil {
		pool.setVoter(voter)
	}
}

// DepositActive adds externally sourced coins to the active bucket.
func (p *Pools) DepositActive(address types.Address, amount *big.Int) {
	pool := p.get(address)
	if pool == nil {
		return
	}

	pool.addActive(amount)
	p.bus.Checker().AddCoin(amount)
}

// DepositPendingActive adds externally sourced coins to the
// pending_active bucket.
func (p *Pools) DepositPendingActive(address types.Address, amount *big.Int) {
	pool := p.get(address)
	if pool == nil {
		return
	}

	pool.addPendingActive(amount)
	p.bus.Checker().AddCoin(amount)
}

// AddReward merges freshly minted coins into the given bucket and
// emits the distribution event.
func (p *Pools) AddReward(address types.Address, amount *big.Int, pendingInactive bool) {
	pool := p.get(address)
	if pool == nil || amount.Sign() == 0 {
		return
	}

	if pendingInactive {
		pool.addPendingInactive(amount)
	} else {
		pool.addActive(amount)
	}
	p.bus.Checker().AddCoin(amount)
	p.bus.Events().AddEvent(&eventsdb.DistributeRewardsEvent{
		Address: address,
		Amount:  amount.String(),
	})
}

// Unlock moves amount from active to pending_inactive. Reports false on
// insufficient active stake.
func (p *Pools) Unlock(address types.Address, amount *big.Int) bool {
	pool := p.get(address)
	if pool == nil {
		return false
	}

	return pool.moveActiveToPendingInactive(amount)
}

// SweepExpired collapses pending_inactive into inactive, used on lazy
// withdraw after lockup expiry and in the epoch engine.
func (p *Pools) SweepExpired(address types.Address) *big.Int {
	pool := p.get(address)
	if pool == nil {
		return big.NewInt(0)
	}

	return pool.releasePendingInactive()
}

// PromotePendingActive merges pending_active into active at an epoch
// boundary.
func (p *Pools) PromotePendingActive(address types.Address) *big.Int {
	pool := p.get(address)
	if pool == nil {
		return big.NewInt(0)
	}

	return pool.promotePendingActive()
}

// WithdrawInactive removes coins from the inactive bucket and credits
// them to the recipient account.
func (p *Pools) WithdrawInactive(address types.Address, recipient types.Address, amount *big.Int) bool {
	pool := p.get(address)
	if pool == nil {
		return false
	}

	if !pool.subInactive(amount) {
		return false
	}

	p.bus.Checker().AddCoin(big.NewInt(0).Neg(amount))
	p.bus.Accounts().AddBalance(recipient, amount)

	return true
}

// PoolOf resolves the pool whose owner capability the holder currently
// keeps.
func (p *Pools) PoolOf(holder types.Address) (types.Address, bool) {
	if row := p.getHolder(holder); row != nil {
		return row.pool, true
	}

	return types.Address{}, false
}

// ExtractOwnerCap removes the capability from the holder and returns it
// in flight.
func (p *Pools) ExtractOwnerCap(holder types.Address) (*OwnerCapability, bool) {
	row := p.getHolder(holder)
	if row == nil {
		return nil, false
	}

	pool := p.get(row.pool)
	if pool == nil {
		return nil, false
	}

	p.deleteHolder(holder)
	pool.setCapHolder(types.Address{})

	return &OwnerCapability{pool: row.pool}, true
}

// DepositOwnerCap parks an in-flight capability with a new holder.
// Reports false when the holder already keeps one.
func (p *Pools) DepositOwnerCap(holder types.Address, cap *OwnerCapability) bool {
	if row := p.getHolder(holder); row != nil {
		return false
	}

	pool := p.get(cap.pool)
	if pool == nil {
		return false
	}

	p.setHolder(holder, cap.pool)
	pool.setCapHolder(holder)

	return true
}

func (p *Pools) get(address types.Address) *Model {
	if pool := p.getFromMap(address); pool != nil {
		return pool
	}

	_, enc := p.immutableTree().Get(getPath(address))
	if len(enc) == 0 {
		return nil
	}

	pool := &Model{}
	if err := rlp.DecodeBytes(enc, pool); err != nil {
		panic(fmt.Sprintf("failed to decode stake pool %s: %s", address.String(), err))
	}

	pool.address = address
	pool.markDirty = p.markDirty
	p.setToMap(address, pool)

	return pool
}

func (p *Pools) getHolder(holder types.Address) *holderRow {
	p.lock.RLock()
	row, ok := p.holders[holder]
	p.lock.RUnlock()
	if ok {
		if row.deleted {
			return nil
		}
		return row
	}

	_, enc := p.immutableTree().Get(getHolderPath(holder))
	if len(enc) == 0 {
		return nil
	}

	row = &holderRow{pool: types.BytesToAddress(enc)}

	p.lock.Lock()
	p.holders[holder] = row
	p.lock.Unlock()

	return row
}

func (p *Pools) setHolder(holder, pool types.Address) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.holders[holder] = &holderRow{pool: pool, dirty: true}
}

func (p *Pools) deleteHolder(holder types.Address) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.holders[holder] = &holderRow{deleted: true, dirty: true}
}

func (p *Pools) markDirty(address types.Address) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.dirty[address] = struct{}{}
}

func (p *Pools) getOrderedDirty() []types.Address {
	keys := make([]types.Address, 0, len(p.dirty))
	for k := range p.dirty {
		keys = append(keys, k)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == -1
	})

	return keys
}

func (p *Pools) getFromMap(address types.Address) *Model {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.list[address]
}

func (p *Pools) setToMap(address types.Address, model *Model) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.list[address] = model
}

func (p *Pools) Export(state *types.AppState) {
	p.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		if len(key) != 1+types.AddressLength {
			return false
		}

		address := types.BytesToAddress(key[1:])
		pool := p.get(address)
		if pool == nil {
			return false
		}

		active, inactive, pendingActive, pendingInactive := pool.getBuckets()
		state.Pools = append(state.Pools, types.Pool{
			Address:         address,
			Active:          active.String(),
			Inactive:        inactive.String(),
			PendingActive:   pendingActive.String(),
			PendingInactive: pendingInactive.String(),
			LockedUntil:     pool.getLockedUntil(),
			Operator:        pool.getOperator(),
			Voter:           pool.getVoter(),
			CapHolder:       pool.getCapHolder(),
		})

		return false
	})
}

// Import loads the genesis pools and rebuilds the capability-holder
// registry. Bucket values bypass the checker, matching the account
// import path.
func (p *Pools) Import(statePools []types.Pool) {
	for _, sp := range statePools {
		pool := &Model{
			Active:          helpers.StringToBigInt(sp.Active),
			Inactive:        helpers.StringToBigInt(sp.Inactive),
			PendingActive:   helpers.StringToBigInt(sp.PendingActive),
			PendingInactive: helpers.StringToBigInt(sp.PendingInactive),
			LockedUntil:     sp.LockedUntil,
			Operator:        sp.Operator,
			Voter:           sp.Voter,
			CapHolder:       sp.CapHolder,
			address:         sp.Address,
			markDirty:       p.markDirty,
		}
		p.setToMap(sp.Address, pool)
		p.markDirty(sp.Address)

		if sp.CapHolder != (types.Address{}) {
			p.setHolder(sp.CapHolder, sp.Address)
		}
	}
}

func getPath(address types.Address) []byte {
	return append([]byte{mainPrefix}, address.Bytes()...)
}

func getHolderPath(holder types.Address) []byte {
	return append([]byte{holderPrefix}, holder.Bytes()...)
}

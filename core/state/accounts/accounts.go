package accounts

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/HelioTeam/helio-go-node/core/state/bus"
	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/HelioTeam/helio-go-node/helpers"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
)

const mainPrefix = byte('a')

type RAccounts interface {
	Export(state *types.AppState)
	GetBalance(address types.Address) *big.Int
	Exists(address types.Address) bool
}

// Accounts keeps the stake-token balance of every account.
type Accounts struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	db  atomic.Value
	bus *bus.Bus

	mintIssued bool

	lock sync.RWMutex
}

func NewAccounts(stateBus *bus.Bus, db *iavl.ImmutableTree) *Accounts {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	accounts := &Accounts{
		db:    immutableTree,
		bus:   stateBus,
		list:  map[types.Address]*Model{},
		dirty: map[types.Address]struct{}{},
	}
	accounts.bus.SetAccounts(NewBus(accounts))

	return accounts
}

func (a *Accounts) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *Accounts) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *Accounts) Commit(db *iavl.MutableTree, version int64) error {
	a.lock.Lock()
	dirties := a.getOrderedDirty()
	a.lock.Unlock()

	for _, address := range dirties {
		account := a.getFromMap(address)

		a.lock.Lock()
		delete(a.dirty, address)
		a.lock.Unlock()

		data, err := rlp.EncodeToBytes(account)
		if err != nil {
			return fmt.Errorf("can't encode account %s: %v", address.String(), err)
		}

		db.Set(getPath(address), data)
	}

	return nil
}

func (a *Accounts) GetBalance(address types.Address) *big.Int {
	account := a.get(address)
	if account == nil {
		return big.NewInt(0)
	}

	return account.getBalance()
}

func (a *Accounts) Exists(address types.Address) bool {
	return a.get(address) != nil
}

// AddBalance credits the account and records the holdings delta.
func (a *Accounts) AddBalance(address types.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}

	account := a.getOrNew(address)
	account.setBalance(big.NewInt(0).Add(account.getBalance(), amount))
	a.bus.Checker().AddCoin(amount)
}

// SubBalance debits the account. The caller checks sufficiency first.
func (a *Accounts) SubBalance(address types.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}

	account := a.getOrNew(address)
	account.setBalance(big.NewInt(0).Sub(account.getBalance(), amount))
	a.bus.Checker().AddCoin(big.NewInt(0).Neg(amount))
}

// SetBalance overwrites the balance without touching the checker. Used
// only while importing genesis.
func (a *Accounts) SetBalance(address types.Address, balance *big.Int) {
	a.getOrNew(address).setBalance(balance)
}

func (a *Accounts) get(address types.Address) *Model {
	if account := a.getFromMap(address); account != nil {
		return account
	}

	_, enc := a.immutableTree().Get(getPath(address))
	if len(enc) == 0 {
		return nil
	}

	account := &Model{}
	if err := rlp.DecodeBytes(enc, account); err != nil {
		panic(fmt.Sprintf("failed to decode account %s: %s", address.String(), err))
	}

	account.address = address
	account.markDirty = a.markDirty
	a.setToMap(address, account)

	return account
}

func (a *Accounts) getOrNew(address types.Address) *Model {
	account := a.get(address)
	if account == nil {
		account = &Model{
			Balance:   big.NewInt(0),
			address:   address,
			markDirty: a.markDirty,
		}
		a.setToMap(address, account)
	}

	return account
}

func (a *Accounts) markDirty(address types.Address) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.dirty[address] = struct{}{}
}

func (a *Accounts) getOrderedDirty() []types.Address {
	keys := make([]types.Address, 0, len(a.dirty))
	for k := range a.dirty {
		keys = append(keys, k)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == -1
	})

	return keys
}

func (a *Accounts) getFromMap(address types.Address) *Model {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.list[address]
}

func (a *Accounts) setToMap(address types.Address, model *Model) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.list[address] = model
}

func (a *Accounts) Export(state *types.AppState) {
	a.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		if len(key) != 1+types.AddressLength {
			return false
		}

		address := types.BytesToAddress(key[1:])
		account := a.get(address)
		if account == nil {
			return false
		}

		state.Accounts = append(state.Accounts, types.Account{
			Address: address,
			Balance: account.getBalance().String(),
		})

		return false
	})
}

// Import loads the genesis balances.
func (a *Accounts) Import(accounts []types.Account) {
	for _, account := range accounts {
		a.SetBalance(account.Address, helpers.StringToBigInt(account.Balance))
	}
}

func getPath(address types.Address) []byte {
	return append([]byte{mainPrefix}, address.Bytes()...)
}

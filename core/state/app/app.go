package app

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/HelioTeam/helio-go-node/core/state/bus"
	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
)

const mainPrefix = 'd'

type RApp interface {
	Export(state *types.AppState)
	Epoch() uint64
	LastBlockTime() uint64
	TotalMinted() *big.Int
	IsInitialized() bool
}

// App is the singleton chain-wide record: the epoch counter, the last
// block timestamp and the minted supply.
type App struct {
	model   *Model
	isDirty bool

	db atomic.Value

	bus *bus.Bus
	mx  sync.Mutex
}

func NewApp(stateBus *bus.Bus, db *iavl.ImmutableTree) *App {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	app := &App{bus: stateBus, db: immutableTree}
	app.bus.SetApp(NewBus(app))

	return app
}

func (a *App) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *App) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *App) Commit(db *iavl.MutableTree, version int64) error {
	a.mx.Lock()
	defer a.mx.Unlock()

	if !a.isDirty {
		return nil
	}

	a.isDirty = false

	data, err := rlp.EncodeToBytes(a.model)
	if err != nil {
		return fmt.Errorf("can't encode app model: %s", err)
	}

	path := []byte{mainPrefix}
	db.Set(path, data)

	return nil
}

func (a *App) Epoch() uint64 {
	return a.getOrNew().getEpoch()
}

func (a *App) SetEpoch(epoch uint64) {
	a.getOrNew().setEpoch(epoch)
}

func (a *App) LastBlockTime() uint64 {
	return a.getOrNew().getLastBlockTime()
}

func (a *App) SetLastBlockTime(timestamp uint64) {
	a.getOrNew().setLastBlockTime(timestamp)
}

func (a *App) TotalMinted() *big.Int {
	return a.getOrNew().getTotalMinted()
}

func (a *App) SetTotalMinted(amount *big.Int) {
	a.getOrNew().setTotalMinted(amount)
}

func (a *App) AddTotalMinted(amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}

	model := a.getOrNew()
	model.setTotalMinted(big.NewInt(0).Add(model.getTotalMinted(), amount))
	a.bus.Checker().AddVolume(amount)
}

func (a *App) IsInitialized() bool {
	return a.getOrNew().isInitialized()
}

func (a *App) SetInitialized() {
	a.getOrNew().setInitialized()
}

func (a *App) get() *Model {
	a.mx.Lock()
	defer a.mx.Unlock()

	if a.model != nil {
		return a.model
	}

	path := []byte{mainPrefix}
	_, enc := a.immutableTree().Get(path)
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := rlp.DecodeBytes(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode app model: %s", err))
	}

	a.model = model
	a.model.markDirty = a.markDirty
	return a.model
}

func (a *App) getOrNew() *Model {
	model := a.get()
	if model == nil {
		model = &Model{
			TotalMinted: big.NewInt(0),
			markDirty:   a.markDirty,
		}
		a.mx.Lock()
		a.model = model
		a.mx.Unlock()
	}

	return model
}

func (a *App) markDirty() {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.isDirty = true
}

func (a *App) Export(state *types.AppState) {
	state.Epoch = a.Epoch()
	state.LastBlockTime = a.LastBlockTime()
	state.TotalMinted = a.TotalMinted().String()
}

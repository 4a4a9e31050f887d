package state

import (
	"log"
	"math/big"
	"sync"

	eventsdb "github.com/HelioTeam/helio-go-node/core/events"
	"github.com/HelioTeam/helio-go-node/core/state/accounts"
	"github.com/HelioTeam/helio-go-node/core/state/app"
	"github.com/HelioTeam/helio-go-node/core/state/bus"
	"github.com/HelioTeam/helio-go-node/core/state/checker"
	"github.com/HelioTeam/helio-go-node/core/state/pools"
	"github.com/HelioTeam/helio-go-node/core/state/stakingconfig"
	"github.com/HelioTeam/helio-go-node/core/state/valconfig"
	"github.com/HelioTeam/helio-go-node/core/state/valset"
	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/HelioTeam/helio-go-node/helpers"
	"github.com/HelioTeam/helio-go-node/tree"
	"github.com/cosmos/iavl"
	db "github.com/tendermint/tm-db"
)

// CheckState is the read-only view over a State, handed to queries and
// to the CLI export path.
type CheckState struct {
	state *State
}

func NewCheckState(state *State) *CheckState {
	return &CheckState{state: state}
}

func (cs *CheckState) Export() types.AppState {
	appState := new(types.AppState)
	cs.App().Export(appState)
	cs.StakingConfig().Export(appState)
	cs.Pools().Export(appState)
	cs.ValConfig().Export(appState)
	cs.ValSet().Export(appState)
	cs.Accounts().Export(appState)

	return *appState
}

func (cs *CheckState) App() app.RApp {
	return cs.state.App
}

func (cs *CheckState) Pools() pools.RPools {
	return cs.state.Pools
}

func (cs *CheckState) ValConfig() valconfig.RValConfig {
	return cs.state.ValConfig
}

func (cs *CheckState) ValSet() valset.RValSet {
	return cs.state.ValSet
}

func (cs *CheckState) StakingConfig() stakingconfig.RConfig {
	return cs.state.StakingConfig
}

func (cs *CheckState) Accounts() accounts.RAccounts {
	return cs.state.Accounts
}

// State wires every staking store over one versioned tree.
type State struct {
	App           *app.App
	Pools         *pools.Pools
	ValConfig     *valconfig.ValConfig
	ValSet        *valset.ValSet
	StakingConfig *stakingconfig.Config
	Accounts      *accounts.Accounts
	Checker       *checker.Checker

	db             db.DB
	events         eventsdb.IEventsDB
	tree           tree.MTree
	keepLastStates int64

	bus            *bus.Bus
	lock           sync.RWMutex
	height         int64
	initialVersion int64
}

func NewState(height uint64, db db.DB, events eventsdb.IEventsDB, cacheSize int, keepLastStates int64, initialVersion uint64) (*State, error) {
	iavlTree, err := tree.NewMutableTree(height, db, cacheSize, initialVersion)
	if err != nil {
		return nil, err
	}

	state, err := newStateForTree(iavlTree.GetLastImmutable(), events, db, keepLastStates)
	if err != nil {
		return nil, err
	}

	state.tree = iavlTree
	state.height = int64(height)
	state.initialVersion = int64(initialVersion)

	return state, nil
}

func NewCheckStateAtHeight(height uint64, db db.DB) (*CheckState, error) {
	iavlTree, err := tree.NewImmutableTree(height, db)
	if err != nil {
		return nil, err
	}
	return newCheckStateForTree(iavlTree, nil, db, 0)
}

func (s *State) Tree() tree.MTree {
	return s.tree
}

func (s *State) Bus() *bus.Bus {
	return s.bus
}

func (s *State) Events() eventsdb.IEventsDB {
	return s.events
}

func (s *State) Height() int64 {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.height
}

func (s *State) Lock() {
	s.lock.Lock()
}

func (s *State) Unlock() {
	s.lock.Unlock()
}

func (s *State) RLock() {
	s.lock.RLock()
}

func (s *State) RUnlock() {
	s.lock.RUnlock()
}

func (s *State) Check() error {
	return s.Checker.Check()
}

func (s *State) Commit() ([]byte, error) {
	s.Checker.Reset()

	hash, version, err := s.tree.Commit(
		s.Accounts,
		s.App,
		s.Pools,
		s.ValConfig,
		s.ValSet,
		s.StakingConfig,
	)
	if err != nil {
		return hash, err
	}

	s.lock.Lock()
	s.height = version
	s.lock.Unlock()

	versionToDelete := version - s.keepLastStates - 1
	if versionToDelete < s.initialVersion {
		return hash, nil
	}

	if err := s.tree.DeleteVersionIfExists(versionToDelete); err != nil {
		log.Printf("DeleteVersion %d error: %s\n", versionToDelete, err)
	}

	return hash, nil
}

// Import loads a genesis document. Bucket and balance values bypass the
// checker; the conservation ledger starts at zero afterwards.
func (s *State) Import(state types.AppState) error {
	if err := state.Verify(); err != nil {
		return err
	}

	s.App.SetEpoch(state.Epoch)
	s.App.SetLastBlockTime(state.LastBlockTime)
	s.App.SetTotalMinted(helpers.StringToBigInt(state.TotalMinted))
	s.App.SetInitialized()

	s.StakingConfig.Import(state.StakingConfig)
	s.Accounts.Import(state.Accounts)
	s.Pools.Import(state.Pools)
	s.ValConfig.Import(state.ValidatorConfigs)

	s.ValSet.Import(&state, func(address types.Address) (types.Pubkey, *big.Int) {
		return s.ValConfig.ConsensusPubkey(address), s.Pools.VotingPower(address)
	})

	s.Checker.Reset()

	return nil
}

func (s *State) Export() types.AppState {
	state, err := NewCheckStateAtHeight(uint64(s.tree.Version()), s.db)
	if err != nil {
		log.Panicf("Create new state at height %d failed: %s", s.tree.Version(), err)
	}

	return state.Export()
}

func newCheckStateForTree(immutableTree *iavl.ImmutableTree, events eventsdb.IEventsDB, db db.DB, keepLastStates int64) (*CheckState, error) {
	stateForTree, err := newStateForTree(immutableTree, events, db, keepLastStates)
	if err != nil {
		return nil, err
	}

	return NewCheckState(stateForTree), nil
}

func newStateForTree(immutableTree *iavl.ImmutableTree, events eventsdb.IEventsDB, db db.DB, keepLastStates int64) (*State, error) {
	stateBus := bus.NewBus()
	stateBus.SetEvents(events)

	stateChecker := checker.NewChecker(stateBus)
	appState := app.NewApp(stateBus, immutableTree)
	accountsState := accounts.NewAccounts(stateBus, immutableTree)
	poolsState := pools.NewPools(stateBus, immutableTree)
	valConfigState := valconfig.NewValConfig(immutableTree)
	valSetState := valset.NewValSet(immutableTree)
	configState := stakingconfig.NewConfig(immutableTree)

	state := &State{
		App:           appState,
		Pools:         poolsState,
		ValConfig:     valConfigState,
		ValSet:        valSetState,
		StakingConfig: configState,
		Accounts:      accountsState,
		Checker:       stateChecker,

		bus:            stateBus,
		db:             db,
		events:         events,
		keepLastStates: keepLastStates,
	}

	return state, nil
}

package valset

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	setPrefix         = byte('v')
	performancePrefix = byte('r')
)

type RValSet interface {
	Export(state *types.AppState)
	State(address types.Address) types.ValidatorState
	IsCurrentEpochValidator(address types.Address) bool
	Active() []*ValidatorInfo
	PendingActive() []*ValidatorInfo
	PendingInactive() []*ValidatorInfo
	SetSize() int
	Counters(index uint64) (Counters, bool)
}

// ValSet is the singleton validator set: the active list with its two
// pending queues, plus the per-index performance counters of the current
// epoch.
type ValSet struct {
	set       *setModel
	perf      *performanceModel
	dirtySet  bool
	dirtyPerf bool

	db atomic.Value

	lock sync.RWMutex
}

func NewValSet(db *iavl.ImmutableTree) *ValSet {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &ValSet{db: immutableTree}
}

func (v *ValSet) immutableTree() *iavl.ImmutableTree {
	db := v.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (v *ValSet) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	v.db.Store(immutableTree)
}

func (v *ValSet) Commit(db *iavl.MutableTree, version int64) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if v.dirtySet {
		v.dirtySet = false

		data, err := rlp.EncodeToBytes(v.set)
		if err != nil {
			return fmt.Errorf("can't encode validator set: %v", err)
		}
		db.Set([]byte{setPrefix}, data)
	}

	if v.dirtyPerf {
		v.dirtyPerf = false

		data, err := rlp.EncodeToBytes(v.perf)
		if err != nil {
			return fmt.Errorf("can't encode validator performance: %v", err)
		}
		db.Set([]byte{performancePrefix}, data)
	}

	return nil
}

// State derives the membership state of a pool from the set queues.
func (v *ValSet) State(address types.Address) types.ValidatorState {
	set := v.getSet()

	if findIndex(set.PendingActive, address) != -1 {
		return types.ValidatorStatePendingActive
	}
	if findIndex(set.Active, address) != -1 {
		return types.ValidatorStateActive
	}
	if findIndex(set.PendingInactive, address) != -1 {
		return types.ValidatorStatePendingInactive
	}

	return types.ValidatorStateInactive
}

// IsCurrentEpochValidator reports whether the pool votes in the current
// epoch. Pending-inactive rows still do.
func (v *ValSet) IsCurrentEpochValidator(address types.Address) bool {
	state := v.State(address)

	return state == types.ValidatorStateActive || state == types.ValidatorStatePendingInactive
}

func (v *ValSet) Active() []*ValidatorInfo {
	return copyList(v.getSet().Active)
}

func (v *ValSet) PendingActive() []*ValidatorInfo {
	return copyList(v.getSet().PendingActive)
}

func (v *ValSet) PendingInactive() []*ValidatorInfo {
	return copyList(v.getSet().PendingInactive)
}

// SetSize is |active| + |pending_active|, the quantity bounded by
// types.MaxValidatorSetSize.
func (v *ValSet) SetSize() int {
	set := v.getSet()

	return len(set.Active) + len(set.PendingActive)
}

// AppendPendingActive queues a joining validator.
func (v *ValSet) AppendPendingActive(info *ValidatorInfo) {
	set := v.getSet()

	v.lock.Lock()
	defer v.lock.Unlock()

	set.PendingActive = append(set.PendingActive, info)
	v.dirtySet = true
}

// RemovePendingActive swap-removes a not-yet-active validator.
func (v *ValSet) RemovePendingActive(address types.Address) *ValidatorInfo {
	set := v.getSet()

	v.lock.Lock()
	defer v.lock.Unlock()

	i := findIndex(set.PendingActive, address)
	if i == -1 {
		return nil
	}

	info := set.PendingActive[i]
	last := len(set.PendingActive) - 1
	set.PendingActive[i] = set.PendingActive[last]
	set.PendingActive = set.PendingActive[:last]
	v.dirtySet = true

	return info
}

// MoveActiveToPendingInactive swap-removes an active validator and
// queues it for deactivation.
func (v *ValSet) MoveActiveToPendingInactive(address types.Address) *ValidatorInfo {
	set := v.getSet()

	v.lock.Lock()
	defer v.lock.Unlock()

	i := findIndex(set.Active, address)
	if i == -1 {
		return nil
	}

	info := set.Active[i]
	last := len(set.Active) - 1
	set.Active[i] = set.Active[last]
	set.Active = set.Active[:last]
	set.PendingInactive = append(set.PendingInactive, info)
	v.dirtySet = true

	return info
}

// Replace installs the reconciled set at an epoch boundary.
func (v *ValSet) Replace(active, pendingActive, pendingInactive []*ValidatorInfo) {
	v.getSet()

	v.lock.Lock()
	defer v.lock.Unlock()

	v.set.Active = active
	v.set.PendingActive = pendingActive
	v.set.PendingInactive = pendingInactive
	v.dirtySet = true
}

// TotalVotingPower sums the locked-in power of every validator still
// voting this epoch.
func (v *ValSet) TotalVotingPower() *big.Int {
	set := v.getSet()

	total := big.NewInt(0)
	for _, info := range set.Active {
		total.Add(total, info.VotingPower)
	}
	for _, info := range set.PendingInactive {
		total.Add(total, info.VotingPower)
	}

	return total
}

// Counters returns the performance record of the given validator index.
func (v *ValSet) Counters(index uint64) (Counters, bool) {
	perf := v.getPerf()

	v.lock.RLock()
	defer v.lock.RUnlock()

	if index >= uint64(len(perf.Validators)) {
		return Counters{}, false
	}

	return *perf.Validators[index], true
}

// IncrementSuccessful bumps the proposal counter, silently skipping
// out-of-range indices.
func (v *ValSet) IncrementSuccessful(index uint64) {
	v.increment(index, true)
}

// IncrementFailed bumps the failure counter, silently skipping
// out-of-range indices.
func (v *ValSet) IncrementFailed(index uint64) {
	v.increment(index, false)
}

func (v *ValSet) increment(index uint64, successful bool) {
	perf := v.getPerf()

	v.lock.Lock()
	defer v.lock.Unlock()

	if index >= uint64(len(perf.Validators)) {
		return
	}

	if successful {
		perf.Validators[index].Successful++
	} else {
		perf.Validators[index].Failed++
	}
	v.dirtyPerf = true
}

// ResetPerformance installs fresh zero counters for the given number of
// active validators.
func (v *ValSet) ResetPerformance(count int) {
	v.getPerf()

	v.lock.Lock()
	defer v.lock.Unlock()

	validators := make([]*Counters, count)
	for i := range validators {
		validators[i] = &Counters{}
	}
	v.perf.Validators = validators
	v.dirtyPerf = true
}

func (v *ValSet) getSet() *setModel {
	v.lock.RLock()
	if v.set != nil {
		defer v.lock.RUnlock()
		return v.set
	}
	v.lock.RUnlock()

	v.lock.Lock()
	defer v.lock.Unlock()

	if v.set != nil {
		return v.set
	}

	v.set = &setModel{}
	_, enc := v.immutableTree().Get([]byte{setPrefix})
	if len(enc) != 0 {
		if err := rlp.DecodeBytes(enc, v.set); err != nil {
			panic(fmt.Sprintf("failed to decode validator set: %s", err))
		}
	}

	return v.set
}

func (v *ValSet) getPerf() *performanceModel {
	v.lock.RLock()
	if v.perf != nil {
		defer v.lock.RUnlock()
		return v.perf
	}
	v.lock.RUnlock()

	v.lock.Lock()
	defer v.lock.Unlock()

	if v.perf != nil {
		return v.perf
	}

	v.perf = &performanceModel{}
	_, enc := v.immutableTree().Get([]byte{performancePrefix})
	if len(enc) != 0 {
		if err := rlp.DecodeBytes(enc, v.perf); err != nil {
			panic(fmt.Sprintf("failed to decode validator performance: %s", err))
		}
	}

	return v.perf
}

func (v *ValSet) Export(state *types.AppState) {
	set := v.getSet()

	for _, info := range set.Active {
		state.ActiveValidators = append(state.ActiveValidators, info.Address)
	}
	for _, info := range set.PendingActive {
		state.PendingActive = append(state.PendingActive, info.Address)
	}
	for _, info := range set.PendingInactive {
		state.PendingInactive = append(state.PendingInactive, info.Address)
	}
}

// Import rebuilds the set rows at genesis. The resolver supplies the
// consensus key and voting power of each member from the other stores.
func (v *ValSet) Import(state *types.AppState, resolve func(address types.Address) (types.Pubkey, *big.Int)) {
	build := func(addresses []types.Address) []*ValidatorInfo {
		infos := make([]*ValidatorInfo, 0, len(addresses))
		for _, address := range addresses {
			pubkey, power := resolve(address)
			infos = append(infos, &ValidatorInfo{
				Address:         address,
				ConsensusPubkey: pubkey,
				VotingPower:     power,
			})
		}
		return infos
	}

	v.Replace(build(state.ActiveValidators), build(state.PendingActive), build(state.PendingInactive))
	v.ResetPerformance(len(state.ActiveValidators))
}

func findIndex(list []*ValidatorInfo, address types.Address) int {
	for i, info := range list {
		if info.Address == address {
			return i
		}
	}

	return -1
}

func copyList(list []*ValidatorInfo) []*ValidatorInfo {
	result := make([]*ValidatorInfo, 0, len(list))
	for _, info := range list {
		result = append(result, info.Copy())
	}

	return result
}

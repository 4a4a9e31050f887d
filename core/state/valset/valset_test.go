package valset

import (
	"math/big"
	"testing"

	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/HelioTeam/helio-go-node/tree"
	db "github.com/tendermint/tm-db"
)

func newTestValSet(t *testing.T) (*ValSet, tree.MTree) {
	t.Helper()

	memDB := db.NewMemDB()
	immutableTree, err := tree.NewMutableTree(0, memDB, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	return NewValSet(immutableTree.GetLastImmutable()), immutableTree
}

func info(addr string, power int64) *ValidatorInfo {
	return &ValidatorInfo{
		Address:     types.HexToAddress(addr),
		VotingPower: big.NewInt(power),
	}
}

func TestValSet_States(t *testing.T) {
	valSet, _ := newTestValSet(t)

	v1 := info("Hx1111111111111111111111111111111111111111", 100)
	v2 := info("Hx2222222222222222222222222222222222222222", 200)

	valSet.AppendPendingActive(v1)
	if valSet.State(v1.Address) != types.ValidatorStatePendingActive {
		t.Fatal("joined validator is not pending_active")
	}
	if valSet.IsCurrentEpochValidator(v1.Address) {
		t.Fatal("pending_active validator counted as current epoch validator")
	}

	valSet.Replace([]*ValidatorInfo{v1, v2}, nil, nil)
	if valSet.State(v1.Address) != types.ValidatorStateActive {
		t.Fatal("validator not active after replace")
	}
	if !valSet.IsCurrentEpochValidator(v1.Address) {
		t.Fatal("active validator not counted as current epoch validator")
	}

	valSet.MoveActiveToPendingInactive(v1.Address)
	if valSet.State(v1.Address) != types.ValidatorStatePendingInactive {
		t.Fatal("leaving validator is not pending_inactive")
	}
	if !valSet.IsCurrentEpochValidator(v1.Address) {
		t.Fatal("pending_inactive validator must still vote this epoch")
	}

	other := types.HexToAddress("Hx9999999999999999999999999999999999999999")
	if valSet.State(other) != types.ValidatorStateInactive {
		t.Fatal("unknown address is not inactive")
	}
}

func TestValSet_SwapRemove(t *testing.T) {
	valSet, _ := newTestValSet(t)

	v1 := info("Hx1111111111111111111111111111111111111111", 100)
	v2 := info("Hx2222222222222222222222222222222222222222", 200)
	v3 := info("Hx3333333333333333333333333333333333333333", 300)

	valSet.Replace([]*ValidatorInfo{v1, v2, v3}, nil, nil)
	valSet.MoveActiveToPendingInactive(v1.Address)

	active := valSet.Active()
	if len(active) != 2 {
		t.Fatalf("active size is %d, want 2", len(active))
	}
	// swap-remove moves the last row into the vacated slot
	if active[0].Address != v3.Address {
		t.Fatal("swap-remove did not move the last row forward")
	}

	if removed := valSet.RemovePendingActive(v1.Address); removed != nil {
		t.Fatal("removed a pending_active row that does not exist")
	}
}

func TestValSet_Performance(t *testing.T) {
	valSet, _ := newTestValSet(t)

	valSet.ResetPerformance(2)

	valSet.IncrementSuccessful(0)
	valSet.IncrementSuccessful(0)
	valSet.IncrementFailed(1)
	valSet.IncrementSuccessful(5)
	valSet.IncrementFailed(100)

	counters, found := valSet.Counters(0)
	if !found || counters.Successful != 2 || counters.Failed != 0 {
		t.Fatalf("counters[0] = %+v", counters)
	}

	counters, found = valSet.Counters(1)
	if !found || counters.Failed != 1 {
		t.Fatalf("counters[1] = %+v", counters)
	}

	if _, found := valSet.Counters(5); found {
		t.Fatal("out-of-range index resolved")
	}
}

func TestValSet_CommitAndReload(t *testing.T) {
	valSet, mutableTree := newTestValSet(t)

	v1 := info("Hx1111111111111111111111111111111111111111", 100)
	v2 := info("Hx2222222222222222222222222222222222222222", 200)

	valSet.Replace([]*ValidatorInfo{v1}, []*ValidatorInfo{v2}, nil)
	valSet.ResetPerformance(1)
	valSet.IncrementSuccessful(0)

	_, _, err := mutableTree.Commit(valSet)
	if err != nil {
		t.Fatal(err)
	}

	reloaded := NewValSet(mutableTree.GetLastImmutable())
	if reloaded.State(v1.Address) != types.ValidatorStateActive {
		t.Fatal("active row lost on reload")
	}
	if reloaded.State(v2.Address) != types.ValidatorStatePendingActive {
		t.Fatal("pending_active row lost on reload")
	}
	if reloaded.SetSize() != 2 {
		t.Fatalf("set size is %d, want 2", reloaded.SetSize())
	}

	counters, found := reloaded.Counters(0)
	if !found || counters.Successful != 1 {
		t.Fatal("performance counters lost on reload")
	}

	if reloaded.TotalVotingPower().Cmp(big.NewInt(100)) != 0 {
		t.Fatal("total voting power must not count pending_active rows")
	}
}

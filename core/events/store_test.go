package events

import (
	"testing"

	"github.com/HelioTeam/helio-go-node/core/types"
	db "github.com/tendermint/tm-db"
)

func TestStore_CommitAndLoad(t *testing.T) {
	store := NewEventsStore(db.NewMemDB())

	address := types.HexToAddress("Hx1111111111111111111111111111111111111111")

	store.AddEvent(&AddStakeEvent{
		Address: address,
		Amount:  "1000",
	})
	store.AddEvent(&JoinValidatorSetEvent{
		Address: address,
	})

	if err := store.CommitEvents(12); err != nil {
		t.Fatal(err)
	}

	loaded := store.LoadEvents(12)
	if len(loaded) != 2 {
		t.Fatalf("loaded %d events, want 2", len(loaded))
	}

	stake, ok := loaded[0].(*AddStakeEvent)
	if !ok {
		t.Fatalf("first event is %T, want *AddStakeEvent", loaded[0])
	}
	if stake.Address != address || stake.Amount != "1000" {
		t.Fatalf("event round-trip mismatch: %+v", stake)
	}

	join, ok := loaded[1].(*JoinValidatorSetEvent)
	if !ok {
		t.Fatalf("second event is %T, want *JoinValidatorSetEvent", loaded[1])
	}
	if join.Address != address {
		t.Fatal("join event address mismatch")
	}
}

func TestStore_PendingClearedOnCommit(t *testing.T) {
	store := NewEventsStore(db.NewMemDB())

	store.AddEvent(&UnlockStakeEvent{
		Address: types.HexToAddress("Hx1111111111111111111111111111111111111111"),
		Amount:  "5",
	})

	if err := store.CommitEvents(1); err != nil {
		t.Fatal(err)
	}
	if err := store.CommitEvents(2); err != nil {
		t.Fatal(err)
	}

	if len(store.LoadEvents(2)) != 0 {
		t.Fatal("pending events leaked into the next height")
	}
}

func TestStore_AddressInterningSurvivesReload(t *testing.T) {
	memDB := db.NewMemDB()
	store := NewEventsStore(memDB)

	address := types.HexToAddress("Hx2222222222222222222222222222222222222222")
	store.AddEvent(&WithdrawStakeEvent{
		Address: address,
		Amount:  "77",
	})
	if err := store.CommitEvents(3); err != nil {
		t.Fatal(err)
	}

	reopened := NewEventsStore(memDB)
	loaded := reopened.LoadEvents(3)
	if len(loaded) != 1 {
		t.Fatalf("loaded %d events, want 1", len(loaded))
	}
	if loaded[0].(*WithdrawStakeEvent).Address != address {
		t.Fatal("interned address lost on reload")
	}
}

func TestStore_EmptyHeight(t *testing.T) {
	store := NewEventsStore(db.NewMemDB())

	if len(store.LoadEvents(999)) != 0 {
		t.Fatal("events found at an empty height")
	}
}

package state

import (
	"testing"

	eventsdb "github.com/HelioTeam/helio-go-node/core/events"
	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"
)

func testPubkey(seed byte) types.Pubkey {
	var pubkey types.Pubkey
	for i := range pubkey {
		pubkey[i] = seed
	}
	return pubkey
}

func genesisDoc() types.AppState {
	poolV1 := types.HexToAddress("Hx1111111111111111111111111111111111111111")
	poolV2 := types.HexToAddress("Hx2222222222222222222222222222222222222222")
	holder := types.HexToAddress("Hx3333333333333333333333333333333333333333")

	return types.AppState{
		StakingConfig: types.StakingConfig{
			MinStake:            "100",
			MaxStake:            "10000",
			RecurringLockupSecs: 3600,
			AllowSetChange:      true,
			RewardRate:          1,
			RewardRateDenom:     100,
		},
		Pools: []types.Pool{
			{
				Address:         poolV1,
				Active:          "200",
				Inactive:        "0",
				PendingActive:   "0",
				PendingInactive: "50",
				LockedUntil:     1003600,
				Operator:        poolV1,
				Voter:           poolV1,
				CapHolder:       poolV1,
			},
			{
				Address:         poolV2,
				Active:          "150",
				Inactive:        "7",
				PendingActive:   "0",
				PendingInactive: "0",
				LockedUntil:     1003600,
				Operator:        holder,
				Voter:           holder,
				CapHolder:       holder,
			},
		},
		ValidatorConfigs: []types.ValidatorConfig{
			{
				Address:           poolV1,
				ConsensusPubkey:   testPubkey(1),
				NetworkAddresses:  []byte("/net1"),
				FullnodeAddresses: []byte("/fn1"),
				Index:             0,
			},
			{
				Address:           poolV2,
				ConsensusPubkey:   testPubkey(2),
				NetworkAddresses:  []byte("/net2"),
				FullnodeAddresses: []byte("/fn2"),
				Index:             1,
			},
		},
		ActiveValidators: []types.Address{poolV1, poolV2},
		Accounts: []types.Account{
			{Address: holder, Balance: "12345"},
		},
		Epoch:         42,
		LastBlockTime: 1000000,
		TotalMinted:   "407",
	}
}

func TestState_ImportExportRoundTrip(t *testing.T) {
	memDB := db.NewMemDB()
	state, err := NewState(0, memDB, eventsdb.NewEventsStore(db.NewMemDB()), 1024, 1, 0)
	require.NoError(t, err)

	doc := genesisDoc()
	require.NoError(t, state.Import(doc))

	hash, err := state.Commit()
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	exported := state.Export()
	require.NoError(t, exported.Verify())

	require.Equal(t, doc.StakingConfig, exported.StakingConfig)
	require.Equal(t, doc.Pools, exported.Pools)
	require.Equal(t, doc.ValidatorConfigs, exported.ValidatorConfigs)
	require.Equal(t, doc.ActiveValidators, exported.ActiveValidators)
	require.Empty(t, exported.PendingActive)
	require.Empty(t, exported.PendingInactive)
	require.Equal(t, doc.Accounts, exported.Accounts)
	require.Equal(t, doc.Epoch, exported.Epoch)
	require.Equal(t, doc.LastBlockTime, exported.LastBlockTime)
	require.Equal(t, doc.TotalMinted, exported.TotalMinted)
}

func TestState_ImportRebuildsDerivedState(t *testing.T) {
	state, err := NewState(0, db.NewMemDB(), eventsdb.NewEventsStore(db.NewMemDB()), 1024, 1, 0)
	require.NoError(t, err)

	doc := genesisDoc()
	require.NoError(t, state.Import(doc))

	poolV1 := doc.Pools[0].Address
	poolV2 := doc.Pools[1].Address

	require.Equal(t, types.ValidatorStateActive, state.ValSet.State(poolV1))
	require.Equal(t, types.ValidatorStateActive, state.ValSet.State(poolV2))
	require.Equal(t, "400", state.ValSet.TotalVotingPower().String())

	// voting power comes from the pool buckets, not the document order
	require.Equal(t, "250", state.Pools.VotingPower(poolV1).String())

	pool, found := state.Pools.PoolOf(doc.Pools[1].CapHolder)
	require.True(t, found)
	require.Equal(t, poolV2, pool)

	// imported values do not count as unbacked coin movement
	require.NoError(t, state.Check())
}

func TestState_ImportRejectsBadDocument(t *testing.T) {
	state, err := NewState(0, db.NewMemDB(), eventsdb.NewEventsStore(db.NewMemDB()), 1024, 1, 0)
	require.NoError(t, err)

	doc := genesisDoc()
	doc.Pools = append(doc.Pools, doc.Pools[0])

	require.Error(t, state.Import(doc))
}

func TestState_ReloadFromDisk(t *testing.T) {
	memDB := db.NewMemDB()
	state, err := NewState(0, memDB, eventsdb.NewEventsStore(db.NewMemDB()), 1024, 1, 0)
	require.NoError(t, err)

	doc := genesisDoc()
	require.NoError(t, state.Import(doc))

	_, err = state.Commit()
	require.NoError(t, err)
	require.Equal(t, int64(1), state.Height())

	checkState, err := NewCheckStateAtHeight(1, memDB)
	require.NoError(t, err)

	require.Equal(t, uint64(42), checkState.App().Epoch())
	require.Equal(t, "12345", checkState.Accounts().GetBalance(doc.Accounts[0].Address).String())
}

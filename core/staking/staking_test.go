package staking

import (
	"math/big"
	"testing"

	"github.com/HelioTeam/helio-go-node/core/code"
	eventsdb "github.com/HelioTeam/helio-go-node/core/events"
	"github.com/HelioTeam/helio-go-node/core/state"
	"github.com/HelioTeam/helio-go-node/core/timestamp"
	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	db "github.com/tendermint/tm-db"
)

// popVerifier accepts any non-empty proof for a non-zero key. Real BLS
// verification is covered in crypto/bls.
type popVerifier struct{}

func (popVerifier) VerifyProofOfPossession(pubkey types.Pubkey, pop []byte) bool {
	return !pubkey.IsZero() && len(pop) != 0
}

var testPoP = []byte("proof-of-possession")

func newTestStaking(t *testing.T, allowSetChange bool) (*Staking, *Privilege, *timestamp.Fixed) {
	t.Helper()

	st, err := state.NewState(0, db.NewMemDB(), eventsdb.NewEventsStore(db.NewMemDB()), 1024, 1, 0)
	require.NoError(t, err)

	clock := &timestamp.Fixed{Seconds: 1000000}
	service := New(st, log.NewNopLogger(), clock, popVerifier{}, nil)

	priv, resp := service.Initialize(big.NewInt(100), big.NewInt(10000), 3600, allowSetChange, 1, 100)
	require.True(t, resp.IsOK(), resp.Log)

	return service, priv, clock
}

func testPubkey(seed byte) types.Pubkey {
	var pubkey types.Pubkey
	for i := range pubkey {
		pubkey[i] = seed
	}
	return pubkey
}

func fundAndRegister(t *testing.T, s *Staking, owner types.Address, seed byte, balance int64) {
	t.Helper()

	s.State().Accounts.AddBalance(owner, big.NewInt(balance))
	resp := s.InitializeValidator(owner, testPubkey(seed), testPoP, []byte("/net"), []byte("/fn"))
	require.True(t, resp.IsOK(), resp.Log)
}

var (
	addrV1 = types.HexToAddress("Hx1111111111111111111111111111111111111111")
	addrV2 = types.HexToAddress("Hx2222222222222222222222222222222222222222")
	addrV3 = types.HexToAddress("Hx3333333333333333333333333333333333333333")
)

func TestInitialize_Once(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	_, resp := service.Initialize(big.NewInt(1), big.NewInt(2), 1, true, 1, 1)
	require.Equal(t, code.AlreadyInitialized, resp.Code)
}

func TestInitializeValidator_Errors(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	resp := service.InitializeValidator(addrV1, testPubkey(1), nil, nil, nil)
	require.Equal(t, code.InvalidPublicKey, resp.Code)

	fundAndRegister(t, service, addrV1, 1, 1000)

	resp = service.InitializeValidator(addrV1, testPubkey(1), testPoP, nil, nil)
	require.Equal(t, code.AlreadyRegistered, resp.Code)
}

func TestAddStake_Errors(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	resp := service.AddStake(addrV1, big.NewInt(100))
	require.Equal(t, code.OwnerCapMissing, resp.Code)

	fundAndRegister(t, service, addrV1, 1, 1000)

	resp = service.AddStake(addrV1, big.NewInt(0))
	require.Equal(t, code.InvalidStakeAmount, resp.Code)

	resp = service.AddStake(addrV1, big.NewInt(2000))
	require.Equal(t, code.InsufficientFunds, resp.Code)

	service.State().Accounts.AddBalance(addrV1, big.NewInt(20000))
	resp = service.AddStake(addrV1, big.NewInt(10001))
	require.Equal(t, code.StakeExceedsMax, resp.Code)

	resp = service.AddStake(addrV1, big.NewInt(10000))
	require.True(t, resp.IsOK(), resp.Log)

	resp = service.AddStake(addrV1, big.NewInt(1))
	require.Equal(t, code.StakeExceedsMax, resp.Code)
}

func TestUnlock_ZeroIsSilent(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)
	require.True(t, service.AddStake(addrV1, big.NewInt(100)).IsOK())

	require.NoError(t, service.State().Events().CommitEvents(1))

	resp := service.Unlock(addrV1, big.NewInt(0))
	require.True(t, resp.IsOK())

	require.NoError(t, service.State().Events().CommitEvents(2))
	require.Len(t, service.State().Events().LoadEvents(2), 0)
}

func TestUnlock_InsufficientActive(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)
	require.True(t, service.AddStake(addrV1, big.NewInt(100)).IsOK())

	resp := service.Unlock(addrV1, big.NewInt(101))
	require.Equal(t, code.InsufficientActive, resp.Code)
}

func TestWithdraw_ClampAndEmpty(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)
	require.True(t, service.AddStake(addrV1, big.NewInt(100)).IsOK())

	resp := service.Withdraw(addrV1, big.NewInt(10))
	require.Equal(t, code.NoCoinsToWithdraw, resp.Code)

	require.True(t, service.Unlock(addrV1, big.NewInt(40)).IsOK())

	// inactive pool, lockup still zero: the sweep happens lazily here
	resp = service.Withdraw(addrV1, big.NewInt(100))
	require.True(t, resp.IsOK(), resp.Log)

	balance := service.State().Accounts.GetBalance(addrV1)
	require.Zero(t, balance.Cmp(big.NewInt(940)), "payout must clamp to the inactive bucket, got balance %s", balance.String())
}

func TestOwnerCapability_Moves(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)

	cap, resp := service.ExtractOwnerCap(addrV1)
	require.True(t, resp.IsOK())
	require.Equal(t, addrV1, cap.PoolAddress())

	resp = service.AddStake(addrV1, big.NewInt(100))
	require.Equal(t, code.OwnerCapMissing, resp.Code)

	_, resp = service.ExtractOwnerCap(addrV1)
	require.Equal(t, code.OwnerCapMissing, resp.Code)

	require.True(t, service.DepositOwnerCap(addrV2, cap).IsOK())

	resp = service.DepositOwnerCap(addrV2, cap)
	require.Equal(t, code.AlreadyRegistered, resp.Code)

	// the new holder drives the pool now
	service.State().Accounts.AddBalance(addrV2, big.NewInt(500))
	require.True(t, service.AddStake(addrV2, big.NewInt(100)).IsOK())

	active, _, _, _ := service.State().Pools.Buckets(addrV1)
	require.Zero(t, active.Cmp(big.NewInt(100)))
}

func TestSetOperator(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)

	require.True(t, service.SetOperator(addrV1, addrV2).IsOK())
	require.Equal(t, addrV2, service.State().Pools.Operator(addrV1))

	resp := service.JoinValidatorSet(addrV1, addrV1)
	require.Equal(t, code.NotOperator, resp.Code)

	resp = service.JoinValidatorSet(addrV2, addrV3)
	require.Equal(t, code.PoolNotFound, resp.Code)
}

func TestSetDelegatedVoter(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)

	require.True(t, service.SetDelegatedVoter(addrV1, addrV3).IsOK())
	require.Equal(t, addrV3, service.State().Pools.Voter(addrV1))
}

func TestJoinValidatorSet_StakeBounds(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 20000)

	require.True(t, service.AddStake(addrV1, big.NewInt(99)).IsOK())
	resp := service.JoinValidatorSet(addrV1, addrV1)
	require.Equal(t, code.StakeTooLow, resp.Code)

	require.True(t, service.AddStake(addrV1, big.NewInt(1)).IsOK())
	resp = service.JoinValidatorSet(addrV1, addrV1)
	require.True(t, resp.IsOK(), resp.Log)
	require.Equal(t, types.ValidatorStatePendingActive, service.ValidatorState(addrV1))

	resp = service.JoinValidatorSet(addrV1, addrV1)
	require.Equal(t, code.AlreadyActive, resp.Code)
}

func TestJoinValidatorSet_NoConsensusKey(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	service.State().Accounts.AddBalance(addrV1, big.NewInt(1000))
	require.True(t, service.InitializeOwnerOnly(addrV1, big.NewInt(100), addrV1, addrV1).IsOK())

	resp := service.JoinValidatorSet(addrV1, addrV1)
	require.Equal(t, code.InvalidPublicKey, resp.Code)

	require.True(t, service.RotateConsensusKey(addrV1, addrV1, testPubkey(1), testPoP).IsOK())
	require.True(t, service.JoinValidatorSet(addrV1, addrV1).IsOK())
}

func TestLeaveValidatorSet(t *testing.T) {
	service, priv, _ := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)
	require.True(t, service.AddStake(addrV1, big.NewInt(100)).IsOK())

	resp := service.LeaveValidatorSet(addrV1, addrV1)
	require.Equal(t, code.NotValidator, resp.Code)

	require.True(t, service.JoinValidatorSet(addrV1, addrV1).IsOK())

	// still pending_active: dropped without an event
	require.True(t, service.LeaveValidatorSet(addrV1, addrV1).IsOK())
	require.Equal(t, types.ValidatorStateInactive, service.ValidatorState(addrV1))

	require.True(t, service.JoinValidatorSet(addrV1, addrV1).IsOK())
	require.True(t, service.OnNewEpoch(priv).IsOK())
	require.Equal(t, types.ValidatorStateActive, service.ValidatorState(addrV1))

	resp = service.LeaveValidatorSet(addrV1, addrV1)
	require.Equal(t, code.LastValidator, resp.Code)

	fundAndRegister(t, service, addrV2, 2, 1000)
	require.True(t, service.AddStake(addrV2, big.NewInt(100)).IsOK())
	require.True(t, service.JoinValidatorSet(addrV2, addrV2).IsOK())
	require.True(t, service.OnNewEpoch(priv).IsOK())

	require.True(t, service.LeaveValidatorSet(addrV1, addrV1).IsOK())
	require.Equal(t, types.ValidatorStatePendingInactive, service.ValidatorState(addrV1))
	require.True(t, service.IsCurrentEpochValidator(addrV1))
}

func TestIncreaseLockup(t *testing.T) {
	service, _, clock := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)

	require.True(t, service.IncreaseLockup(addrV1).IsOK())
	require.Equal(t, clock.Seconds+3600, service.State().Pools.LockedUntil(addrV1))

	// same instant, same recurring period: nothing to extend
	resp := service.IncreaseLockup(addrV1)
	require.Equal(t, code.LockTimeTooShort, resp.Code)
}

func TestIncreaseLockupTo(t *testing.T) {
	service, _, clock := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)
	require.True(t, service.IncreaseLockupTo(addrV1, clock.Seconds+100).IsOK())

	resp := service.IncreaseLockupTo(addrV1, clock.Seconds+50)
	require.Equal(t, code.LockTimeTooShort, resp.Code)

	resp = service.IncreaseLockupTo(addrV1, clock.Seconds+3601)
	require.Equal(t, code.LockTimeTooLong, resp.Code)

	require.True(t, service.IncreaseLockupTo(addrV1, clock.Seconds+3600).IsOK())
}

func TestRotateConsensusKey(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)

	resp := service.RotateConsensusKey(addrV2, addrV1, testPubkey(9), testPoP)
	require.Equal(t, code.NotOperator, resp.Code)

	resp = service.RotateConsensusKey(addrV1, addrV1, testPubkey(9), nil)
	require.Equal(t, code.InvalidPublicKey, resp.Code)

	require.True(t, service.RotateConsensusKey(addrV1, addrV1, testPubkey(9), testPoP).IsOK())
	require.Equal(t, testPubkey(9), service.State().ValConfig.ConsensusPubkey(addrV1))

	// rotating back restores the original effective key
	require.True(t, service.RotateConsensusKey(addrV1, addrV1, testPubkey(1), testPoP).IsOK())
	require.Equal(t, testPubkey(1), service.State().ValConfig.ConsensusPubkey(addrV1))
}

func TestUpdateNetworkAndFullnodeAddresses(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	fundAndRegister(t, service, addrV1, 1, 1000)

	require.True(t, service.UpdateNetworkAndFullnodeAddresses(addrV1, addrV1, []byte("/net2"), []byte("/fn2")).IsOK())

	network, fullnode := service.State().ValConfig.NetworkAddresses(addrV1)
	require.Equal(t, []byte("/net2"), network)
	require.Equal(t, []byte("/fn2"), fullnode)
}

func TestPrivilegedEntryPoints_RejectOutsiders(t *testing.T) {
	service, _, _ := newTestStaking(t, true)

	resp := service.OnNewEpoch(nil)
	require.Equal(t, code.NotFramework, resp.Code)

	resp = service.UpdatePerformanceStatistics(&Privilege{}, nil, nil)
	require.Equal(t, code.NotFramework, resp.Code)

	resp = service.CreateInitializeValidators(nil, nil)
	require.Equal(t, code.NotFramework, resp.Code)
}

package staking

import (
	"fmt"

	"github.com/HelioTeam/helio-go-node/core/code"
	eventsdb "github.com/HelioTeam/helio-go-node/core/events"
	"github.com/HelioTeam/helio-go-node/core/metrics"
	"github.com/HelioTeam/helio-go-node/core/state"
	"github.com/HelioTeam/helio-go-node/core/state/accounts"
	"github.com/HelioTeam/helio-go-node/core/timestamp"
	"github.com/HelioTeam/helio-go-node/core/types"
	"github.com/HelioTeam/helio-go-node/crypto/bls"
	"github.com/tendermint/tendermint/libs/log"
)

// Privilege is the framework token guarding the privileged entry points
// (epoch engine, block prologue, genesis validators). Exactly one is
// minted, by Initialize.
type Privilege struct {
	valid bool
}

// Staking is the operations surface of the stake module. Every public
// method is one transaction handler: auth check, validation, state
// mutation, event.
type Staking struct {
	state    *state.State
	logger   log.Logger
	clock    timestamp.Oracle
	verifier bls.Verifier
	metrics  *metrics.Metrics

	mintAuth *accounts.MintAuthority
}

func New(st *state.State, logger log.Logger, clock timestamp.Oracle, verifier bls.Verifier, m *metrics.Metrics) *Staking {
	return &Staking{
		state:    st,
		logger:   logger,
		clock:    clock,
		verifier: verifier,
		metrics:  m,
	}
}

func (s *Staking) State() *state.State {
	return s.state
}

// ValidatorState derives the membership state of a pool from the set
// queues.
func (s *Staking) ValidatorState(pool types.Address) types.ValidatorState {
	return s.state.ValSet.State(pool)
}

// IsCurrentEpochValidator reports whether the pool still votes this
// epoch.
func (s *Staking) IsCurrentEpochValidator(pool types.Address) bool {
	return s.state.ValSet.IsCurrentEpochValidator(pool)
}

func (s *Staking) now() uint64 {
	return s.clock.NowSeconds()
}

func (s *Staking) addEvent(event eventsdb.Event) {
	s.state.Bus().Events().AddEvent(event)
}

// poolByCap resolves the pool whose owner capability the signer holds.
func (s *Staking) poolByCap(signer types.Address) (types.Address, Response) {
	pool, found := s.state.Pools.PoolOf(signer)
	if !found {
		return types.Address{}, failure(code.OwnerCapMissing, fmt.Sprintf("no owner capability held by %s", signer.String()))
	}

	return pool, ok()
}

// requireOperator checks that the signer runs the given pool.
func (s *Staking) requireOperator(signer, pool types.Address) Response {
	if !s.state.Pools.Exists(pool) {
		return failure(code.PoolNotFound, fmt.Sprintf("stake pool %s does not exist", pool.String()))
	}

	if s.state.Pools.Operator(pool) != signer {
		return failure(code.NotOperator, fmt.Sprintf("%s is not the operator of pool %s", signer.String(), pool.String()))
	}

	return ok()
}

func (s *Staking) requirePrivilege(priv *Privilege) Response {
	if priv == nil || !priv.valid {
		return failure(code.NotFramework, "caller does not hold the framework privilege")
	}

	return ok()
}

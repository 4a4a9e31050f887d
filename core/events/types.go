package events

import (
	"math/big"

	"github.com/HelioTeam/helio-go-node/core/types"
)

// Event type names
const (
	TypeRegisterValidatorCandidateEvent = "helio/RegisterValidatorCandidateEvent"
	TypeSetOperatorEvent                = "helio/SetOperatorEvent"
	TypeAddStakeEvent                   = "helio/AddStakeEvent"
	TypeUnlockStakeEvent                = "helio/UnlockStakeEvent"
	TypeWithdrawStakeEvent              = "helio/WithdrawStakeEvent"
	TypeRotateConsensusKeyEvent         = "helio/RotateConsensusKeyEvent"
	TypeUpdateNetworkAddressesEvent     = "helio/UpdateNetworkAddressesEvent"
	TypeIncreaseLockupEvent             = "helio/IncreaseLockupEvent"
	TypeJoinValidatorSetEvent           = "helio/JoinValidatorSetEvent"
	TypeLeaveValidatorSetEvent          = "helio/LeaveValidatorSetEvent"
	TypeDistributeRewardsEvent          = "helio/DistributeRewardsEvent"
)

// Event is emitted by a staking operation and stored per block height.
type Event interface {
	Type() string
	AddressString() string
	address() types.Address
	convert(addressID uint32) compactEvent
}

type compactEvent interface {
	compile(address [20]byte) Event
	addressID() uint32
}

type Events []Event

type registerValidatorCandidate struct {
	AddressID uint32
	Pubkey    [48]byte
}

func (r *registerValidatorCandidate) compile(address [20]byte) Event {
	event := new(RegisterValidatorCandidateEvent)
	event.Address = address
	event.ConsensusPubkey = r.Pubkey
	return event
}

func (r *registerValidatorCandidate) addressID() uint32 {
	return r.AddressID
}

// RegisterValidatorCandidateEvent marks the creation of a stake pool with
// a verified consensus key.
type RegisterValidatorCandidateEvent struct {
	Address         types.Address `json:"address"`
	ConsensusPubkey types.Pubkey  `json:"consensus_pubkey"`
}

func (e *RegisterValidatorCandidateEvent) Type() string {
	return TypeRegisterValidatorCandidateEvent
}

func (e *RegisterValidatorCandidateEvent) AddressString() string {
	return e.Address.String()
}

func (e *RegisterValidatorCandidateEvent) address() types.Address {
	return e.Address
}

func (e *RegisterValidatorCandidateEvent) convert(addressID uint32) compactEvent {
	result := new(registerValidatorCandidate)
	result.AddressID = addressID
	result.Pubkey = e.ConsensusPubkey
	return result
}

type setOperator struct {
	AddressID   uint32
	NewOperator [20]byte
}

func (s *setOperator) compile(address [20]byte) Event {
	event := new(SetOperatorEvent)
	event.Address = address
	event.NewOperator = s.NewOperator
	return event
}

func (s *setOperator) addressID() uint32 {
	return s.AddressID
}

// SetOperatorEvent marks a change of the pool's operator account.
type SetOperatorEvent struct {
	Address     types.Address `json:"address"`
	NewOperator types.Address `json:"new_operator"`
}

func (e *SetOperatorEvent) Type() string {
	return TypeSetOperatorEvent
}

func (e *SetOperatorEvent) AddressString() string {
	return e.Address.String()
}

func (e *SetOperatorEvent) address() types.Address {
	return e.Address
}

func (e *SetOperatorEvent) convert(addressID uint32) compactEvent {
	result := new(setOperator)
	result.AddressID = addressID
	result.NewOperator = e.NewOperator
	return result
}

type addStake struct {
	AddressID uint32
	Amount    []byte
}

func (a *addStake) compile(address [20]byte) Event {
	event := new(AddStakeEvent)
	event.Address = address
	event.Amount = big.NewInt(0).SetBytes(a.Amount).String()
	return event
}

func (a *addStake) addressID() uint32 {
	return a.AddressID
}

// AddStakeEvent marks coins deposited into a pool.
type AddStakeEvent struct {
	Address types.Address `json:"address"`
	Amount  string        `json:"amount"`
}

func (e *AddStakeEvent) Type() string {
	return TypeAddStakeEvent
}

func (e *AddStakeEvent) AddressString() string {
	return e.Address.String()
}

func (e *AddStakeEvent) address() types.Address {
	return e.Address
}

func (e *AddStakeEvent) convert(addressID uint32) compactEvent {
	result := new(addStake)
	result.AddressID = addressID
	result.Amount = helpersAmount(e.Amount)
	return result
}

type unlockStake struct {
	AddressID uint32
	Amount    []byte
}

func (u *unlockStake) compile(address [20]byte) Event {
	event := new(UnlockStakeEvent)
	event.Address = address
	event.Amount = big.NewInt(0).SetBytes(u.Amount).String()
	return event
}

func (u *unlockStake) addressID() uint32 {
	return u.AddressID
}

// UnlockStakeEvent marks stake scheduled for withdrawal.
type UnlockStakeEvent struct {
	Address types.Address `json:"address"`
	Amount  string        `json:"amount"`
}

func (e *UnlockStakeEvent) Type() string {
	return TypeUnlockStakeEvent
}

func (e *UnlockStakeEvent) AddressString() string {
	return e.Address.String()
}

func (e *UnlockStakeEvent) address() types.Address {
	return e.Address
}

func (e *UnlockStakeEvent) convert(addressID uint32) compactEvent {
	result := new(unlockStake)
	result.AddressID = addressID
	result.Amount = helpersAmount(e.Amount)
	return result
}

type withdrawStake struct {
	AddressID uint32
	Amount    []byte
}

func (w *withdrawStake) compile(address [20]byte) Event {
	event := new(WithdrawStakeEvent)
	event.Address = address
	event.Amount = big.NewInt(0).SetBytes(w.Amount).String()
	return event
}

func (w *withdrawStake) addressID() uint32 {
	return w.AddressID
}

// WithdrawStakeEvent marks inactive stake leaving the pool.
type WithdrawStakeEvent struct {
	Address types.Address `json:"address"`
	Amount  string        `json:"amount"`
}

func (e *WithdrawStakeEvent) Type() string {
	return TypeWithdrawStakeEvent
}

func (e *WithdrawStakeEvent) AddressString() string {
	return e.Address.String()
}

func (e *WithdrawStakeEvent) address() types.Address {
	return e.Address
}

func (e *WithdrawStakeEvent) convert(addressID uint32) compactEvent {
	result := new(withdrawStake)
	result.AddressID = addressID
	result.Amount = helpersAmount(e.Amount)
	return result
}

type rotateConsensusKey struct {
	AddressID uint32
	OldPubkey [48]byte
	NewPubkey [48]byte
}

func (r *rotateConsensusKey) compile(address [20]byte) Event {
	event := new(RotateConsensusKeyEvent)
	event.Address = address
	event.OldPubkey = r.OldPubkey
	event.NewPubkey = r.NewPubkey
	return event
}

func (r *rotateConsensusKey) addressID() uint32 {
	return r.AddressID
}

// RotateConsensusKeyEvent marks a consensus key replacement.
type RotateConsensusKeyEvent struct {
	Address   types.Address `json:"address"`
	OldPubkey types.Pubkey  `json:"old_pubkey"`
	NewPubkey types.Pubkey  `json:"new_pubkey"`
}

func (e *RotateConsensusKeyEvent) Type() string {
	return TypeRotateConsensusKeyEvent
}

func (e *RotateConsensusKeyEvent) AddressString() string {
	return e.Address.String()
}

func (e *RotateConsensusKeyEvent) address() types.Address {
	return e.Address
}

func (e *RotateConsensusKeyEvent) convert(addressID uint32) compactEvent {
	result := new(rotateConsensusKey)
	result.AddressID = addressID
	result.OldPubkey = e.OldPubkey
	result.NewPubkey = e.NewPubkey
	return result
}

type updateNetworkAddresses struct {
	AddressID   uint32
	OldNetwork  []byte
	NewNetwork  []byte
	OldFullnode []byte
	NewFullnode []byte
}

func (u *updateNetworkAddresses) compile(address [20]byte) Event {
	event := new(UpdateNetworkAddressesEvent)
	event.Address = address
	event.OldNetworkAddresses = u.OldNetwork
	event.NewNetworkAddresses = u.NewNetwork
	event.OldFullnodeAddresses = u.OldFullnode
	event.NewFullnodeAddresses = u.NewFullnode
	return event
}

func (u *updateNetworkAddresses) addressID() uint32 {
	return u.AddressID
}

// UpdateNetworkAddressesEvent marks a change of the validator's network
// and fullnode addresses.
type UpdateNetworkAddressesEvent struct {
	Address              types.Address `json:"address"`
	OldNetworkAddresses  []byte        `json:"old_network_addresses"`
	NewNetworkAddresses  []byte        `json:"new_network_addresses"`
	OldFullnodeAddresses []byte        `json:"old_fullnode_addresses"`
	NewFullnodeAddresses []byte        `json:"new_fullnode_addresses"`
}

func (e *UpdateNetworkAddressesEvent) Type() string {
	return TypeUpdateNetworkAddressesEvent
}

func (e *UpdateNetworkAddressesEvent) AddressString() string {
	return e.Address.String()
}

func (e *UpdateNetworkAddressesEvent) address() types.Address {
	return e.Address
}

func (e *UpdateNetworkAddressesEvent) convert(addressID uint32) compactEvent {
	result := new(updateNetworkAddresses)
	result.AddressID = addressID
	result.OldNetwork = e.OldNetworkAddresses
	result.NewNetwork = e.NewNetworkAddresses
	result.OldFullnode = e.OldFullnodeAddresses
	result.NewFullnode = e.NewFullnodeAddresses
	return result
}

type increaseLockup struct {
	AddressID      uint32
	OldLockedUntil uint64
	NewLockedUntil uint64
}

func (i *increaseLockup) compile(address [20]byte) Event {
	event := new(IncreaseLockupEvent)
	event.Address = address
	event.OldLockedUntil = i.OldLockedUntil
	event.NewLockedUntil = i.NewLockedUntil
	return event
}

func (i *increaseLockup) addressID() uint32 {
	return i.AddressID
}

// IncreaseLockupEvent marks an extension of the pool's lockup deadline.
type IncreaseLockupEvent struct {
	Address        types.Address `json:"address"`
	OldLockedUntil uint64        `json:"old_locked_until_secs"`
	NewLockedUntil uint64        `json:"new_locked_until_secs"`
}

func (e *IncreaseLockupEvent) Type() string {
	return TypeIncreaseLockupEvent
}

func (e *IncreaseLockupEvent) AddressString() string {
	return e.Address.String()
}

func (e *IncreaseLockupEvent) address() types.Address {
	return e.Address
}

func (e *IncreaseLockupEvent) convert(addressID uint32) compactEvent {
	result := new(increaseLockup)
	result.AddressID = addressID
	result.OldLockedUntil = e.OldLockedUntil
	result.NewLockedUntil = e.NewLockedUntil
	return result
}

type joinValidatorSet struct {
	AddressID uint32
}

func (j *joinValidatorSet) compile(address [20]byte) Event {
	event := new(JoinValidatorSetEvent)
	event.Address = address
	return event
}

func (j *joinValidatorSet) addressID() uint32 {
	return j.AddressID
}

// JoinValidatorSetEvent marks a pool queued for activation.
type JoinValidatorSetEvent struct {
	Address types.Address `json:"address"`
}

func (e *JoinValidatorSetEvent) Type() string {
	return TypeJoinValidatorSetEvent
}

func (e *JoinValidatorSetEvent) AddressString() string {
	return e.Address.String()
}

func (e *JoinValidatorSetEvent) address() types.Address {
	return e.Address
}

func (e *JoinValidatorSetEvent) convert(addressID uint32) compactEvent {
	result := new(joinValidatorSet)
	result.AddressID = addressID
	return result
}

type leaveValidatorSet struct {
	AddressID uint32
}

func (l *leaveValidatorSet) compile(address [20]byte) Event {
	event := new(LeaveValidatorSetEvent)
	event.Address = address
	return event
}

func (l *leaveValidatorSet) addressID() uint32 {
	return l.AddressID
}

// LeaveValidatorSetEvent marks a pool queued for deactivation.
type LeaveValidatorSetEvent struct {
	Address types.Address `json:"address"`
}

func (e *LeaveValidatorSetEvent) Type() string {
	return TypeLeaveValidatorSetEvent
}

func (e *LeaveValidatorSetEvent) AddressString() string {
	return e.Address.String()
}

func (e *LeaveValidatorSetEvent) address() types.Address {
	return e.Address
}

func (e *LeaveValidatorSetEvent) convert(addressID uint32) compactEvent {
	result := new(leaveValidatorSet)
	result.AddressID = addressID
	return result
}

type distributeRewards struct {
	AddressID uint32
	Amount    []byte
}

func (d *distributeRewards) compile(address [20]byte) Event {
	event := new(DistributeRewardsEvent)
	event.Address = address
	event.Amount = big.NewInt(0).SetBytes(d.Amount).String()
	return event
}

func (d *distributeRewards) addressID() uint32 {
	return d.AddressID
}

// DistributeRewardsEvent marks epoch rewards minted into a pool.
type DistributeRewardsEvent struct {
	Address types.Address `json:"address"`
	Amount  string        `json:"amount"`
}

func (e *DistributeRewardsEvent) Type() string {
	return TypeDistributeRewardsEvent
}

func (e *DistributeRewardsEvent) AddressString() string {
	return e.Address.String()
}

func (e *DistributeRewardsEvent) address() types.Address {
	return e.Address
}

func (e *DistributeRewardsEvent) convert(addressID uint32) compactEvent {
	result := new(distributeRewards)
	result.AddressID = addressID
	result.Amount = helpersAmount(e.Amount)
	return result
}

func helpersAmount(amount string) []byte {
	bi, _ := big.NewInt(0).SetString(amount, 10)
	return bi.Bytes()
}

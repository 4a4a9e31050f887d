package code

// Codes for staking operation responses
const (
	// general
	OK uint32 = 0

	// auth
	NotOperator       uint32 = 101
	AlreadyRegistered uint32 = 102
	SetChangeDisabled uint32 = 103
	OwnerCapMissing   uint32 = 104
	NotFramework      uint32 = 105

	// validation
	InvalidPublicKey     uint32 = 201
	InvalidStakeAmount   uint32 = 202
	StakeTooLow          uint32 = 203
	StakeTooHigh         uint32 = 204
	StakeExceedsMax      uint32 = 205
	ValidatorSetTooLarge uint32 = 206
	LockTimeTooShort     uint32 = 207
	LockTimeTooLong      uint32 = 208

	// state
	ValidatorConfigMissing uint32 = 301
	AlreadyActive          uint32 = 302
	NotValidator           uint32 = 303
	LastValidator          uint32 = 304
	NoCoinsToWithdraw      uint32 = 305
	WithdrawNotAllowed     uint32 = 306
	PoolNotFound           uint32 = 307
	InsufficientActive     uint32 = 308
	InsufficientFunds      uint32 = 309
	AlreadyInitialized     uint32 = 310
)

package rewards

import (
	"math/big"

	"github.com/HelioTeam/helio-go-node/core/state/accounts"
	"github.com/HelioTeam/helio-go-node/core/state/pools"
	"github.com/HelioTeam/helio-go-node/core/types"
)

// Calculate computes the epoch reward of one bucket:
//
//	stake * rate * successful / (denom * total)
//
// The numerator is built first so the division happens once, on the full
// product. Zero proposals or a zero denominator yield zero instead of
// dividing by it.
func Calculate(stake *big.Int, numSuccessful, numTotal, rewardRate, rewardRateDenom uint64) *big.Int {
	if numTotal == 0 || rewardRateDenom == 0 {
		return big.NewInt(0)
	}

	numerator := big.NewInt(0).Mul(stake, new(big.Int).SetUint64(rewardRate))
	numerator.Mul(numerator, new(big.Int).SetUint64(numSuccessful))

	denominator := big.NewInt(0).Mul(new(big.Int).SetUint64(rewardRateDenom), new(big.Int).SetUint64(numTotal))

	return numerator.Quo(numerator, denominator)
}

// Distribute mints the reward for one bucket and merges it in, returning
// the minted amount.
func Distribute(auth *accounts.MintAuthority, ledger *accounts.Accounts, poolSet *pools.Pools,
	address types.Address, stake *big.Int, numSuccessful, numTotal, rewardRate, rewardRateDenom uint64,
	pendingInactive bool) *big.Int {
	reward := Calculate(stake, numSuccessful, numTotal, rewardRate, rewardRateDenom)
	if reward.Sign() == 0 {
		return reward
	}

	ledger.Mint(auth, reward)
	poolSet.AddReward(address, reward, pendingInactive)

	return reward
}

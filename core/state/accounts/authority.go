package accounts

import (
	"math/big"
)

// MintAuthority permits minting of new stake tokens. A single authority
// is issued at genesis and held by the staking service; reward
// distribution is its only consumer.
type MintAuthority struct {
	valid bool
}

// IssueMintAuthority returns the one-shot mint authority. Issuing twice
// is a bootstrap bug.
func (a *Accounts) IssueMintAuthority() *MintAuthority {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.mintIssued {
		panic("mint authority already issued")
	}
	a.mintIssued = true

	return &MintAuthority{valid: true}
}

// Mint grows the token supply. The minted coins land wherever the caller
// deposits them; the matching holdings delta is the caller's duty.
func (a *Accounts) Mint(auth *MintAuthority, amount *big.Int) {
	if auth == nil || !auth.valid {
		panic("minting without authority")
	}
	if amount.Sign() == 0 {
		return
	}

	a.bus.App().AddTotalMinted(amount)
}

package helpers

import (
	"fmt"
	"math/big"
)

// HelioToWei converts whole HELIO to wei (multiplies input by 1e18)
func HelioToWei(helio *big.Int) *big.Int {
	p := big.NewInt(10)
	p.Exp(p, big.NewInt(18), nil)
	p.Mul(p, helio)

	return p
}

// StringToBigInt converts string to BigInt, panics on empty strings and errors
func StringToBigInt(s string) *big.Int {
	if s == "" {
		panic("string is empty")
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		panic(fmt.Sprintf("Cannot decode %s into big.Int", s))
	}

	return b
}

// IsValidBigInt verifies that string is a valid non-negative int
func IsValidBigInt(s string) bool {
	if s == "" {
		return false
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		return false
	}

	if b.Cmp(big.NewInt(0)) == -1 {
		return false
	}

	return true
}

// BigMin returns the smaller of a and b as a fresh value
func BigMin(a, b *big.Int) *big.Int {
	if a.Cmp(b) < 0 {
		return big.NewInt(0).Set(a)
	}

	return big.NewInt(0).Set(b)
}

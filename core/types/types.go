package types

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	// AddressLength is the expected length of an account address
	AddressLength = 20
	// PubkeyLength is the expected length of a BLS12-381 consensus public key (min-pk)
	PubkeyLength = 48
	// ProofOfPossessionLength is the expected length of a BLS proof-of-possession signature
	ProofOfPossessionLength = 96
)

/////////// Address

type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

func StringToAddress(s string) Address { return BytesToAddress([]byte(s)) }
func BigToAddress(b *big.Int) Address  { return BytesToAddress(b.Bytes()) }
func HexToAddress(s string) Address    { return BytesToAddress(fromHex(s, "Hx")) }

// IsHexAddress verifies whether a string can represent a valid hex-encoded
// Helio address or not.
func IsHexAddress(s string) bool {
	if hasHexPrefix(s, "Hx") {
		s = s[2:]
	}
	return len(s) == 2*AddressLength && isHex(s)
}

func (a Address) Bytes() []byte { return a[:] }
func (a Address) Big() *big.Int { return new(big.Int).SetBytes(a[:]) }

func (a Address) Hex() string {
	return "Hx" + hex.EncodeToString(a[:])
}

// String implements the stringer interface and is used also by the logger.
func (a Address) String() string {
	return a.Hex()
}

// Format implements fmt.Formatter, forcing the byte slice to be formatted as is,
// without going through the stringer interface used for logging.
func (a Address) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "%"+string(c), a[:])
}

// SetBytes sets the address to the value of b. Leading bytes are cut off if b is too long.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a *Address) Set(other Address) {
	for i, v := range other {
		a[i] = v
	}
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalText(input []byte) error {
	b := fromHex(string(input), "Hx")
	if len(b) != AddressLength {
		return fmt.Errorf("invalid address length %d", len(b))
	}
	copy(a[:], b)
	return nil
}

func (a *Address) UnmarshalJSON(input []byte) error {
	if len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"' {
		input = input[1 : len(input)-1]
	}
	return a.UnmarshalText(input)
}

func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.Hex() + `"`), nil
}

func (a Address) Compare(a2 Address) int {
	return bytesCompare(a[:], a2[:])
}

/////////// Pubkey

// Pubkey is a BLS12-381 consensus public key of a validator
type Pubkey [PubkeyLength]byte

func BytesToPubkey(b []byte) Pubkey {
	var p Pubkey
	copy(p[:], b)
	return p
}

func HexToPubkey(s string) Pubkey { return BytesToPubkey(fromHex(s, "Hp")) }

func (p Pubkey) Bytes() []byte { return p[:] }

func (p Pubkey) String() string {
	return "Hp" + hex.EncodeToString(p[:])
}

func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p Pubkey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Pubkey) UnmarshalJSON(input []byte) error {
	if len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"' {
		input = input[1 : len(input)-1]
	}
	b := fromHex(string(input), "Hp")
	if len(b) != PubkeyLength {
		return fmt.Errorf("invalid pubkey length %d", len(b))
	}
	copy(p[:], b)
	return nil
}

func (p Pubkey) Equals(p2 Pubkey) bool {
	return p == p2
}

// IsZero reports whether the key is the all-zero placeholder of an
// owner-only pool that has not published a consensus key yet.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

/////////// hex helpers

func fromHex(s string, prefix string) []byte {
	if hasHexPrefix(s, prefix) {
		s = s[len(prefix):]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	h, _ := hex.DecodeString(s)
	return h
}

func hasHexPrefix(str string, prefix string) bool {
	return len(str) >= len(prefix) && str[:len(prefix)] == prefix
}

func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isHex(str string) bool {
	if len(str)%2 != 0 {
		return false
	}
	for _, c := range []byte(str) {
		if !isHexCharacter(c) {
			return false
		}
	}
	return true
}

func bytesCompare(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

package bls

import (
	"github.com/HelioTeam/helio-go-node/core/types"
	blst "github.com/supranational/blst/bindings/go"
)

// Proof-of-possession domain separation tag of the min-pk BLS12-381
// ciphersuite.
var dstPOP = []byte("BLS_POP_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// Verifier checks that a consensus key comes with a valid proof of
// possession.
type Verifier interface {
	VerifyProofOfPossession(pubkey types.Pubkey, pop []byte) bool
}

type blstVerifier struct{}

func NewVerifier() Verifier {
	return blstVerifier{}
}

func (blstVerifier) VerifyProofOfPossession(pubkey types.Pubkey, pop []byte) bool {
	if pubkey.IsZero() || len(pop) != types.ProofOfPossessionLength {
		return false
	}

	pk := new(blst.P1Affine).Uncompress(pubkey.Bytes())
	if pk == nil || !pk.KeyValidate() {
		return false
	}

	sig := new(blst.P2Affine).Uncompress(pop)
	if sig == nil {
		return false
	}

	return sig.Verify(true, pk, false, pubkey.Bytes(), dstPOP)
}

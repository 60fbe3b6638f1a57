package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeGenerator produces one-time verification codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// codeRange covers 000000 through 999999.
var codeRange = big.NewInt(1000000)

type randomCodeGenerator struct{}

// NewRandomCodeGenerator returns the default generator: a uniformly random
// six-digit zero-padded code from crypto/rand. Codes are short-lived
// secrets rather than keys; the generator is injected so the source can be
// swapped without touching the engine.
func NewRandomCodeGenerator() CodeGenerator {
	return randomCodeGenerator{}
}

func (randomCodeGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

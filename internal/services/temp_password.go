package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	tempPasswordLength = 10
	tempPasswordChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// PasswordGenerator produces temporary passwords for the reset flow.
type PasswordGenerator interface {
	Generate() (string, error)
}

type RandomPasswordGenerator struct{}

func (RandomPasswordGenerator) Generate() (string, error) {
	max := big.NewInt(int64(len(tempPasswordChars)))
	b := make([]byte, tempPasswordLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate temporary password: %w", err)
		}
		b[i] = tempPasswordChars[n.Int64()]
	}
	return string(b), nil
}

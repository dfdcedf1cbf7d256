package shuffle

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Shuffler is an injectable randomness source. Production code uses the
// crypto-backed implementation; tests substitute a deterministic one.
type Shuffler interface {
	// Shuffle permutes n elements through the swap callback (Fisher-Yates contract)
	Shuffle(n int, swap func(i, j int))
}

// CryptoShuffler draws from the system CSPRNG
type CryptoShuffler struct{}

func New() CryptoShuffler {
	return CryptoShuffler{}
}

func (CryptoShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j, err := randomInt(int64(i + 1))
		if err != nil {
			// crypto/rand failing means the platform RNG is broken;
			// refusing to shuffle would silently bias the payout order
			panic(fmt.Sprintf("shuffle: %v", err))
		}
		swap(i, int(j))
	}
}

func randomInt(max int64) (int64, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random int: %w", err)
	}
	return v.Int64(), nil
}

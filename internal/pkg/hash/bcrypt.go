package hash

import "golang.org/x/crypto/bcrypt"

// Bcrypt implements Hash with bcrypt. bcrypt reads at most 72 bytes, so
// plaintext plus pepper should fit in that.
type Bcrypt struct {
	cost   int
	pepper []byte
}

// NewBcrypt clamps an out-of-range cost to bcrypt.DefaultCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: []byte(pepper)}
}

func (h *Bcrypt) peppered(plaintext string) []byte {
	return append([]byte(plaintext), h.pepper...)
}

func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword(h.peppered(plaintext), h.cost)
}

func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), h.peppered(plaintext)) == nil
}

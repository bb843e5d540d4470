package auth

import "golang.org/x/crypto/bcrypt"

// VerifyResult reports whether a password matched and whether the stored
// hash should be upgraded to the currently configured cost.
type VerifyResult struct {
	Valid       bool
	NeedsRehash bool
}

// Hasher wraps bcrypt with a configured cost. Comparison is delegated to
// bcrypt, which is safe against timing attacks.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify checks raw against hash. NeedsRehash is only meaningful when Valid
// is true; callers upgrade the stored hash asynchronously and never block
// the login path on it.
func (h *Hasher) Verify(hash, raw string) VerifyResult {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) != nil {
		return VerifyResult{}
	}

	cost, err := bcrypt.Cost([]byte(hash))
	return VerifyResult{
		Valid:       true,
		NeedsRehash: err == nil && cost < h.cost,
	}
}

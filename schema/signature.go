package schema

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Signature is the canonical, key-sorted and fully recursive encoding of an
// object's shape. Objects with equal signatures share one record definition.
type Signature string

// Digest is a short stable fingerprint of the signature for logs and headers.
func (s Signature) Digest() string {
	return strconv.FormatUint(xxhash.Sum64String(string(s)), 16)
}

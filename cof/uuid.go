package cof

import (
	"crypto/rand"

	"github.com/pkg/errors"
)

// newUUID generates a random UUIDv4: 16 random bytes with byte 6's top
// nibble forced to 0x4 (version) and byte 8's top two bits forced to
// 0b10 (RFC 4122 variant), per spec.md §4.5.
func newUUID() ([16]byte, error) {
	var id [16]byte
	if _, err := rand.Read(id[:]); err != nil {
		return id, errors.Wrap(err, "cof: generating UUID")
	}
	id[6] = (id[6] & 0x0F) | 0x40
	id[8] = (id[8] & 0x3F) | 0x80
	return id, nil
}

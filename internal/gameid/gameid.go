// Package gameid generates identifiers for table sessions and hands.
//
// IDs are UUIDv7 values rendered as 26 lowercase Crockford base32
// characters, so they sort lexicographically by creation time and are
// safe to paste into chat messages and log lines.
package gameid

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// Crockford's base32 alphabet: no i, l, o or u.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

const encodedLen = 26

// RandSource supplies the random tail of an ID. *math/rand.Rand satisfies
// it, so tables can reuse their injected shuffle source.
type RandSource interface {
	Intn(n int) int
}

// Generator produces IDs from an optional injected random source. A nil
// source falls back to crypto/rand.
type Generator struct {
	rand RandSource
}

// NewGenerator returns a Generator drawing randomness from src, or from
// crypto/rand when src is nil.
func NewGenerator(src RandSource) *Generator {
	return &Generator{rand: src}
}

// New generates an ID using crypto/rand
func New() string {
	return NewGenerator(nil).New()
}

// New generates a fresh ID. The millisecond timestamp occupies the high 48
// bits, so IDs created later compare greater.
func (g *Generator) New() string {
	var u [16]byte

	ms := uint64(time.Now().UnixMilli())
	binary.BigEndian.PutUint64(u[:8], ms<<16)

	if g.rand != nil {
		for i := 6; i < len(u); i++ {
			u[i] = byte(g.rand.Intn(256))
		}
	} else {
		if _, err := crand.Read(u[6:]); err != nil {
			panic("gameid: " + err.Error())
		}
	}

	u[6] = u[6]&0x0f | 0x70 // version 7
	u[8] = u[8]&0x3f | 0x80 // RFC 4122 variant

	return encode(u)
}

// encode renders 128 bits as 26 base32 characters, high bits first. Two
// leading zero bits pad the value to an even 26 groups of five, which is
// why the first character never exceeds '7'.
func encode(u [16]byte) string {
	out := make([]byte, 0, encodedLen)
	var acc uint32
	bits := 2
	for _, b := range u {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out = append(out, alphabet[(acc>>bits)&0x1f])
		}
	}
	return string(out)
}

// Validate reports whether id is a well-formed identifier
func Validate(id string) error {
	if len(id) != encodedLen {
		return fmt.Errorf("id must be %d characters, got %d", encodedLen, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("id first character %q out of range", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("id has invalid character %q at position %d", id[i], i)
		}
	}
	return nil
}

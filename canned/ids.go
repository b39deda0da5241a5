package canned

import (
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/shipq/typegen/generator"
	"github.com/shipq/typegen/rng"
)

// reader feeds a Rand into APIs that want an io.Reader of random bytes.
type reader struct {
	r *rng.Rand
}

func (rd reader) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := rd.r.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

// UUIDs yields random (version 4) UUIDs.
func UUIDs(src *rng.Source) generator.Generator {
	return rng.GeneratorFunc(func() (any, error) {
		r, err := src.Next()
		if err != nil {
			return nil, err
		}
		return uuid.NewRandomFromReader(reader{r})
	})
}

// UUIDHexes yields UUIDs as 32 hex digits without dashes.
func UUIDHexes(src *rng.Source) generator.Generator {
	return rng.Map(UUIDs(src), func(v any) any {
		id := v.(uuid.UUID)
		return hex.EncodeToString(id[:])
	})
}

// nanoAlphabet has 64 URL-safe characters so each one is exactly 6 bits.
const nanoAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"

// NanoIDLength is the length of generated nano IDs.
const NanoIDLength = 21

// NanoIDs yields 21-character URL-safe IDs, one draw per ID.
func NanoIDs(src *rng.Source) generator.Generator {
	return rng.Draws(src, func(r *rng.Rand) any {
		var id [NanoIDLength]byte
		for i := range id {
			id[i] = nanoAlphabet[r.Bits(6)]
		}
		return string(id[:])
	})
}

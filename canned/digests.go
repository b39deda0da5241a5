package canned

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/sha3"

	"github.com/shipq/typegen/generator"
	"github.com/shipq/typegen/rng"
)

// Digests yields hex SHA3-256 digests of printable strings.
func Digests(src *rng.Source) generator.Generator {
	return rng.Map(Bytes(src), func(v any) any {
		sum := sha3.Sum256(v.([]byte))
		return hex.EncodeToString(sum[:])
	})
}

// Argon2id parameters for generated password hashes. They are far below
// what a real password store uses so that generation stays fast; the
// encoding is the standard PHC string either way.
const (
	argon2Time    = 1
	argon2Memory  = 64
	argon2Threads = 1
	argon2SaltLen = 16
	argon2HashLen = 32
)

// PasswordHashes yields PHC-encoded Argon2id hashes of printable strings,
// salted from the Source:
//
//	$argon2id$v=19$m=64,t=1,p=1$<salt>$<hash>
func PasswordHashes(src *rng.Source) generator.Generator {
	passwords := PrintableStrings(src)
	return rng.GeneratorFunc(func() (any, error) {
		password, err := passwords.Next()
		if err != nil {
			return nil, err
		}
		r, err := src.Next()
		if err != nil {
			return nil, err
		}
		salt := make([]byte, argon2SaltLen)
		if _, err := (reader{r}).Read(salt); err != nil {
			return nil, err
		}

		hash := argon2.IDKey([]byte(password.(string)), salt, argon2Time, argon2Memory, argon2Threads, argon2HashLen)
		return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
			argon2.Version, argon2Memory, argon2Time, argon2Threads,
			base64.RawStdEncoding.EncodeToString(salt),
			base64.RawStdEncoding.EncodeToString(hash)), nil
	})
}

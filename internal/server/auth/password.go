package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/vocabkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash is returned by Verify when the stored hash cannot be parsed.
var ErrInvalidHash = errors.New("invalid password hash")

// PasswordHasher turns plaintext passwords into opaque, salted hashes and
// checks candidates against them.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) (bool, error)
}

// Argon2Params are the Argon2id cost parameters. They are embedded in every
// hash, so changing them only affects hashes produced afterwards.
type Argon2Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultArgon2Params returns production parameters (64 MiB, 3 passes).
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{Memory: 64 * 1024, Time: 3, Threads: 2, KeyLen: 32, SaltLen: 16}
}

// Argon2idHasher implements PasswordHasher with Argon2id and the PHC string
// format:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
//
// Argon2 consumes the whole password, unlike bcrypt which silently truncates
// at 72 bytes. Safe for concurrent use.
type Argon2idHasher struct {
	params Argon2Params
}

// NewArgon2idHasher validates p and returns a hasher.
func NewArgon2idHasher(p Argon2Params) (*Argon2idHasher, error) {
	switch {
	case p.Time < 1:
		return nil, fmt.Errorf("argon2: time must be >= 1, got %d", p.Time)
	case p.Threads < 1:
		return nil, fmt.Errorf("argon2: threads must be >= 1, got %d", p.Threads)
	case p.Memory < 8*uint32(p.Threads):
		return nil, fmt.Errorf("argon2: memory %d KiB must be >= 8*threads", p.Memory)
	case p.KeyLen < 16:
		return nil, fmt.Errorf("argon2: key length must be >= 16, got %d", p.KeyLen)
	case p.SaltLen < 8:
		return nil, fmt.Errorf("argon2: salt length must be >= 8, got %d", p.SaltLen)
	}
	return &Argon2idHasher{params: p}, nil
}

// Hash derives a key from plaintext with a fresh random salt.
func (h *Argon2idHasher) Hash(plaintext string) (string, error) {
	salt := common.GenerateRandByteArray(int(h.params.SaltLen))
	key := argon2.IDKey([]byte(plaintext), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify re-derives the key using the parameters and salt stored in encoded
// and compares in constant time. A mismatch is (false, nil); an unparsable
// hash is ErrInvalidHash.
func (h *Argon2idHasher) Verify(plaintext, encoded string) (bool, error) {
	p, salt, key, err := decodeArgon2id(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(plaintext), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func decodeArgon2id(encoded string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, ErrInvalidHash
	}

	for _, kv := range strings.Split(parts[3], ",") {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return p, nil, nil, ErrInvalidHash
		}
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return p, nil, nil, ErrInvalidHash
		}
		switch name {
		case "m":
			p.Memory = uint32(v)
		case "t":
			p.Time = uint32(v)
		case "p":
			if v > 255 {
				return p, nil, nil, ErrInvalidHash
			}
			p.Threads = uint8(v)
		default:
			return p, nil, nil, ErrInvalidHash
		}
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, ErrInvalidHash
	}

	return p, salt, key, nil
}

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// CredentialVerifier hashes new passwords and checks login attempts against
// stored credentials.
type CredentialVerifier interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches stored. needsRehash is set when
	// stored is valid but should be replaced with a fresh Hash.
	Verify(stored, plaintext string) (ok, needsRehash bool, err error)
}

type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

var DefaultArgon2Params = Argon2Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLen:     16,
	KeyLen:      32,
}

const argon2Prefix = "$argon2id$"

// Argon2Verifier stores argon2id PHC strings. With AllowLegacyPlaintext set,
// records written before hashing was introduced are compared as plaintext and
// flagged for rehash.
type Argon2Verifier struct {
	Params               Argon2Params
	AllowLegacyPlaintext bool
}

func NewArgon2Verifier(allowLegacy bool) *Argon2Verifier {
	return &Argon2Verifier{Params: DefaultArgon2Params, AllowLegacyPlaintext: allowLegacy}
}

func (v *Argon2Verifier) params() Argon2Params {
	if v.Params == (Argon2Params{}) {
		return DefaultArgon2Params
	}
	return v.Params
}

func (v *Argon2Verifier) Hash(plaintext string) (string, error) {
	p := v.params()
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := argon2.IDKey([]byte(plaintext), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLen)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix,
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

func (v *Argon2Verifier) Verify(stored, plaintext string) (bool, bool, error) {
	if !strings.HasPrefix(stored, argon2Prefix) {
		if !v.AllowLegacyPlaintext || stored == "" {
			return false, false, nil
		}
		ok := subtle.ConstantTimeCompare([]byte(stored), []byte(plaintext)) == 1
		return ok, ok, nil
	}

	p, salt, key, err := parseArgon2id(stored)
	if err != nil {
		return false, false, err
	}
	other := argon2.IDKey([]byte(plaintext), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLen)
	if subtle.ConstantTimeCompare(key, other) != 1 {
		return false, false, nil
	}

	want := v.params()
	stale := p.Memory != want.Memory || p.Iterations != want.Iterations || p.Parallelism != want.Parallelism
	return true, stale, nil
}

func parseArgon2id(hash string) (Argon2Params, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return Argon2Params{}, nil, nil, errors.New("invalid argon2id hash format")
	}
	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return Argon2Params{}, nil, nil, errors.New("unsupported argon2 version")
	}

	var p Argon2Params
	for _, kv := range strings.Split(parts[3], ",") {
		k, val, ok := strings.Cut(kv, "=")
		if !ok {
			return Argon2Params{}, nil, nil, errors.New("invalid argon2 params")
		}
		bits := 32
		if k == "p" {
			bits = 8
		}
		n, err := strconv.ParseUint(val, 10, bits)
		if err != nil {
			return Argon2Params{}, nil, nil, fmt.Errorf("invalid argon2 param %q", k)
		}
		switch k {
		case "m":
			p.Memory = uint32(n)
		case "t":
			p.Iterations = uint32(n)
		case "p":
			p.Parallelism = uint8(n)
		default:
			return Argon2Params{}, nil, nil, fmt.Errorf("unknown argon2 param %q", k)
		}
	}

	// argon2.IDKey panics on zero time or threads.
	if p.Memory < 1 || p.Iterations < 1 || p.Parallelism < 1 {
		return Argon2Params{}, nil, nil, errors.New("argon2 params out of range")
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return Argon2Params{}, nil, nil, errors.New("invalid argon2 salt")
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Argon2Params{}, nil, nil, errors.New("invalid argon2 key")
	}
	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}

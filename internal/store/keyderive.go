package store

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"os/user"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// Argon2id parameters for deriving the store key.
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
)

// keySalt is a fixed application salt. The derivation input is
// per-machine identity material, not a secret passphrase, so a fixed
// salt is sufficient to domain-separate the hash.
var keySalt = []byte("skycli.credential-store.v1")

// deriveKey derives the store encryption key from stable machine/user
// identity material and the store path. The result is deterministic
// for one installation and never written anywhere.
func deriveKey(storePath string) ([]byte, error) {
	material := identityMaterial(storePath)

	master := argon2.IDKey(material, keySalt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// Separate subkey per purpose, so the master can safely feed
	// future consumers (e.g. config field encryption).
	return deriveSubkey(master, "session-record", argon2KeyLen)
}

// identityMaterial collects the stable per-installation inputs.
func identityMaterial(storePath string) []byte {
	hostname, _ := os.Hostname()

	username := os.Getenv("USER")
	if u, err := user.Current(); err == nil && u.Username != "" {
		username = u.Username
	}

	parts := []string{
		hostname,
		strconv.Itoa(os.Getuid()),
		username,
		storePath,
	}
	return []byte(strings.Join(parts, "\x00"))
}

// deriveSubkey expands a purpose-bound subkey from the master via HKDF.
func deriveSubkey(master []byte, purpose string, length int) ([]byte, error) {
	r := hkdf.New(sha256.New, master, nil, []byte(purpose))
	key := make([]byte, length)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive subkey: %w", err)
	}
	return key, nil
}

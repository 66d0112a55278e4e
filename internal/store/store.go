package store

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skycli/skycli/internal/core/domain"
	"github.com/skycli/skycli/pkg/crypto/aead"
)

const (
	// SessionFileName is the session file name inside the config dir.
	SessionFileName = "session"

	dirMode  = 0o700
	fileMode = 0o600

	// fieldDelimiter separates nonce, tag, and ciphertext in the
	// persisted encoding.
	fieldDelimiter = ":"
)

// recordContext is bound as AEAD additional data, tying ciphertexts to
// this purpose and format version.
var recordContext = []byte("skycli/session-record/v1")

// Store persists exactly one session record, encrypted at rest.
type Store struct {
	dir    string
	path   string
	cipher aead.Cipher
}

// Option configures a Store.
type Option func(*options)

type options struct {
	key []byte
}

// WithKey overrides the derived encryption key (tests).
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// New creates a store rooted at dir, deriving the encryption key for
// this installation unless one is supplied.
func New(dir string, opts ...Option) (*Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	path := filepath.Join(dir, SessionFileName)

	key := o.key
	if key == nil {
		derived, err := deriveKey(path)
		if err != nil {
			return nil, domain.ErrStoreIO.WithDetails("key derivation failed").WithCause(err)
		}
		key = derived
	}

	cipher, err := aead.New(key)
	if err != nil {
		return nil, domain.ErrStoreIO.WithDetails("cipher init failed").WithCause(err)
	}

	return &Store{dir: dir, path: path, cipher: cipher}, nil
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Read returns the current session record, or (nil, nil) when no
// record exists. Non-empty bytes that cannot be authenticated,
// decrypted, or parsed fail with a decode error; a partially
// recovered record is never returned.
func (s *Store) Read() (*domain.Session, error) {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.ErrStoreIO.WithCause(err)
	}

	// A loosened permission means the confidentiality invariant was
	// already violated outside our control; refuse rather than proceed.
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		return nil, domain.ErrStorePermissions.WithDetails(
			fmt.Sprintf("%s is mode %04o; run: chmod 600 %s", s.path, perm, s.path))
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, domain.ErrStoreIO.WithCause(err)
	}

	body := strings.TrimSpace(string(raw))
	if body == "" {
		// Empty file is the canonical logged-out marker.
		return nil, nil
	}

	plaintext, err := s.decode(body)
	if err != nil {
		return nil, domain.ErrSessionCorrupt.WithCause(err)
	}

	var session domain.Session
	if err := json.Unmarshal(plaintext, &session); err != nil {
		return nil, domain.ErrSessionCorrupt.WithDetails("record does not parse").WithCause(err)
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	return &session, nil
}

// Write serializes, encrypts, and persists the record. The write goes
// through a temp file and rename so a crash mid-write leaves either
// the old record or a fully new one. Owner-only permissions are
// asserted on both the directory and the file.
func (s *Store) Write(session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	plaintext, err := json.Marshal(session)
	if err != nil {
		return domain.ErrStoreIO.WithDetails("serialize record").WithCause(err)
	}

	encoded, err := s.encode(plaintext)
	if err != nil {
		return domain.ErrStoreIO.WithDetails("encrypt record").WithCause(err)
	}

	return s.persist([]byte(encoded))
}

// Clear leaves the store in the absent state by overwriting the file
// with the empty logged-out marker. Idempotent; never errors when
// already absent.
func (s *Store) Clear() error {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return nil
	}
	return s.persist(nil)
}

// encode produces hex(nonce):hex(tag):hex(ciphertext).
func (s *Store) encode(plaintext []byte) (string, error) {
	nonce, err := aead.NewNonce(s.cipher)
	if err != nil {
		return "", err
	}

	sealed, err := s.cipher.Seal(nonce, plaintext, recordContext)
	if err != nil {
		return "", err
	}

	tagStart := len(sealed) - s.cipher.Overhead()
	ciphertext, tag := sealed[:tagStart], sealed[tagStart:]

	return strings.Join([]string{
		hex.EncodeToString(nonce),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	}, fieldDelimiter), nil
}

// decode parses the three-field encoding and authenticates/decrypts.
func (s *Store) decode(body string) ([]byte, error) {
	fields := strings.Split(body, fieldDelimiter)
	if len(fields) != 3 {
		return nil, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	nonce, err := hex.DecodeString(fields[0])
	if err != nil {
		return nil, fmt.Errorf("decode nonce: %w", err)
	}
	tag, err := hex.DecodeString(fields[1])
	if err != nil {
		return nil, fmt.Errorf("decode tag: %w", err)
	}
	ciphertext, err := hex.DecodeString(fields[2])
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}

	return s.cipher.Open(nonce, append(ciphertext, tag...), recordContext)
}

// persist writes content atomically-enough via temp file + rename and
// re-asserts owner-only modes.
func (s *Store) persist(content []byte) error {
	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		return domain.ErrStoreIO.WithDetails("create config dir").WithCause(err)
	}

	tmp, err := os.CreateTemp(s.dir, SessionFileName+".tmp-*")
	if err != nil {
		return domain.ErrStoreIO.WithCause(err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return domain.ErrStoreIO.WithCause(err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return domain.ErrStoreIO.WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		return domain.ErrStoreIO.WithCause(err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return domain.ErrStoreIO.WithCause(err)
	}

	// Close any window where a permission change could persist.
	if err := os.Chmod(s.path, fileMode); err != nil {
		return domain.ErrStoreIO.WithCause(err)
	}
	return nil
}

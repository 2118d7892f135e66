package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ksa-portal/admissions-api/internal/config"
)

var (
	// ErrInvalidPath is returned for paths outside the store
	ErrInvalidPath = errors.New("invalid form path")
	// ErrBadSignature is returned when a signed URL fails verification
	ErrBadSignature = errors.New("invalid signature")
	// ErrLinkExpired is returned when a signed URL is past its expiry
	ErrLinkExpired = errors.New("signed link expired")
)

// FormStore persists uploaded completed application forms and issues
// time-limited signed download links for them.
type FormStore struct {
	baseDir  string
	secret   []byte
	ttl      time.Duration
	basePath string
}

// NewFormStore creates a form store rooted at the configured directory
func NewFormStore(cfg *config.StorageConfig) (*FormStore, error) {
	if err := os.MkdirAll(filepath.Join(cfg.BaseDir, "forms"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FormStore{
		baseDir:  cfg.BaseDir,
		secret:   []byte(cfg.SigningSecret),
		ttl:      cfg.SignedURLTTL,
		basePath: strings.TrimSuffix(cfg.DownloadBasePath, "/"),
	}, nil
}

// BaseDir returns the root directory the store writes under.
func (s *FormStore) BaseDir() string {
	return s.baseDir
}

// Save writes an uploaded form and returns its storage path. The name
// embeds the applicant and national ID plus a timestamp so re-uploads never
// collide.
func (s *FormStore) Save(applicantID, nationalID, filename string, r io.Reader, now time.Time) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	name := fmt.Sprintf("%s_%s_%d%s", applicantID, nationalID, now.UnixMilli(), ext)
	storagePath := path.Join("forms", name)

	full, err := s.resolve(storagePath)
	if err != nil {
		return "", err
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}

	return storagePath, nil
}

// SignURL issues a signed download link for a stored form, valid for the
// configured TTL from "now".
func (s *FormStore) SignURL(storagePath string, now time.Time) (string, error) {
	if _, err := s.resolve(storagePath); err != nil {
		return "", err
	}

	expires := now.Add(s.ttl).Unix()
	sig := s.sign(storagePath, expires)

	return fmt.Sprintf("%s/%s?expires=%d&sig=%s",
		s.basePath, url.PathEscape(storagePath), expires, sig), nil
}

// Verify checks a signed link's signature and expiry
func (s *FormStore) Verify(storagePath string, expires int64, sig string, now time.Time) error {
	if _, err := s.resolve(storagePath); err != nil {
		return err
	}

	expected := s.sign(storagePath, expires)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrBadSignature
	}

	if now.Unix() > expires {
		return ErrLinkExpired
	}

	return nil
}

// Open returns the stored file for a verified path
func (s *FormStore) Open(storagePath string) (*os.File, error) {
	full, err := s.resolve(storagePath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open form file: %w", err)
	}

	return f, nil
}

func (s *FormStore) sign(storagePath string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(storagePath))
	mac.Write([]byte("\n"))
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// resolve maps a storage path to a location on disk, rejecting anything
// that would escape the store.
func (s *FormStore) resolve(storagePath string) (string, error) {
	if storagePath == "" || path.IsAbs(storagePath) {
		return "", ErrInvalidPath
	}

	clean := path.Clean(storagePath)
	if clean != storagePath || strings.HasPrefix(clean, "..") {
		return "", ErrInvalidPath
	}

	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), nil
}

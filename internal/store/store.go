// Package store persists finished verification sessions as JSON files,
// one per session, keyed by a timestamped slug derived from the claim.
// Keys double as filenames and as the lookup handle on the HTTP API, so
// they are sanitized to a conservative character set.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/veridict/internal/model"
)

const slugMax = 50

var (
	nonAlnum  = regexp.MustCompile(`[^a-zA-Z0-9]`)
	multiUnd  = regexp.MustCompile(`_+`)
	keyFormat = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// Entry is one row in a result listing
type Entry struct {
	Key       string        `json:"key"`
	Claim     string        `json:"claim"`
	Verdict   model.Verdict `json:"verdict,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Size      int64         `json:"size"`
}

// Store is a filesystem-backed session store
type Store struct {
	dir string
}

// New creates the store, making the directory if needed
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "verification_results"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory
func (s *Store) Dir() string {
	return s.dir
}

// Key builds the storage key for a session: UTC timestamp plus a slug of
// the claim text. Distinct sessions for the same claim in the same second
// share a key; the later write wins, which is acceptable for this store.
func Key(at time.Time, claim string) string {
	slug := nonAlnum.ReplaceAllString(claim, "_")
	slug = multiUnd.ReplaceAllString(slug, "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > slugMax {
		slug = strings.Trim(slug[:slugMax], "_")
	}
	if slug == "" {
		slug = "claim"
	}
	return at.UTC().Format("20060102_150405") + "_" + slug
}

// Save writes a session under its derived key and returns the key
func (s *Store) Save(session *model.Session) (string, error) {
	key := Key(session.Claim.SubmittedAt, session.Claim.Text)

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	path := filepath.Join(s.dir, key+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return key, nil
}

// Get loads a stored session by key. A key that is not in the sanitized
// alphabet is rejected before touching the filesystem.
func (s *Store) Get(key string) (*model.Session, error) {
	if !keyFormat.MatchString(key) {
		return nil, fmt.Errorf("invalid result key: %q", key)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, key+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", key, err)
	}
	return &session, nil
}

// List returns all stored results, newest first. Unreadable files are
// skipped rather than failing the whole listing.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("list results: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		key := strings.TrimSuffix(name, ".json")

		session, err := s.Get(key)
		if err != nil {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}

		entry := Entry{
			Key:       key,
			Claim:     session.Claim.Text,
			CreatedAt: session.Claim.SubmittedAt,
			Size:      info.Size(),
		}
		if session.Evaluation != nil {
			entry.Verdict = session.Evaluation.OverallVerdict
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].Key > entries[j].Key
	})
	return entries, nil
}

// ErrNotFound reports a missing result key
var ErrNotFound = fmt.Errorf("result not found")

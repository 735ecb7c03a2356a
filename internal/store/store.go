package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/foyer/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketSections = []byte("sections")
	bucketSeasons  = []byte("seasons")
	bucketEpisodes = []byte("episodes")
	bucketChannels = []byte("channels")
)

// SectionStore caches catalog reads in BoltDB so the kiosk can paint
// a grid before the first network round-trip completes. Stale entries
// are overwritten by every successful refresh; the store never serves
// as the source of truth.
type SectionStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewSectionStore opens (or creates) the cache under baseCacheDir,
// namespaced by a hash of the catalog server URL so switching servers
// never serves another server's items. An empty baseCacheDir yields a
// memory-only store.
func NewSectionStore(baseCacheDir, serverURL string) (*SectionStore, error) {
	if baseCacheDir == "" {
		return &SectionStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "foyer.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSections, bucketSeasons, bucketEpisodes, bucketChannels} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SectionStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *SectionStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *SectionStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *SectionStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *SectionStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *SectionStore) deletePrefix(bucket []byte, prefix string) {
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Sections ===

// GetSection returns the cached merged entries for a section kind
func (s *SectionStore) GetSection(kind domain.MediaKind) ([]domain.MergedEntry, bool) {
	var entries []domain.MergedEntry
	ok := s.get(bucketSections, "section:"+string(kind), &entries)
	return entries, ok
}

// SaveSection stores the merged entries for a section kind
func (s *SectionStore) SaveSection(kind domain.MediaKind, entries []domain.MergedEntry) error {
	return s.set(bucketSections, "section:"+string(kind), entries)
}

// === Seasons ===

func (s *SectionStore) GetSeasons(seriesID string) ([]domain.MediaItem, bool) {
	var seasons []domain.MediaItem
	ok := s.get(bucketSeasons, "series:"+seriesID, &seasons)
	return seasons, ok
}

func (s *SectionStore) SaveSeasons(seriesID string, seasons []domain.MediaItem) error {
	return s.set(bucketSeasons, "series:"+seriesID, seasons)
}

// === Episodes (hierarchical key: series:{seriesID}:season:{seasonID}) ===

func (s *SectionStore) GetEpisodes(seriesID, seasonID string) ([]domain.MediaItem, bool) {
	var episodes []domain.MediaItem
	key := fmt.Sprintf("series:%s:season:%s", seriesID, seasonID)
	ok := s.get(bucketEpisodes, key, &episodes)
	return episodes, ok
}

func (s *SectionStore) SaveEpisodes(seriesID, seasonID string, episodes []domain.MediaItem) error {
	key := fmt.Sprintf("series:%s:season:%s", seriesID, seasonID)
	return s.set(bucketEpisodes, key, episodes)
}

// === Channels ===

func (s *SectionStore) GetChannels() ([]domain.MediaItem, bool) {
	var channels []domain.MediaItem
	ok := s.get(bucketChannels, "list", &channels)
	return channels, ok
}

func (s *SectionStore) SaveChannels(channels []domain.MediaItem) error {
	return s.set(bucketChannels, "list", channels)
}

// === Invalidation ===

// InvalidateSeries wipes a series' seasons plus all of its episodes
func (s *SectionStore) InvalidateSeries(seriesID string) {
	s.delete(bucketSeasons, "series:"+seriesID)
	s.deletePrefix(bucketEpisodes, "series:"+seriesID+":season:")
}

// InvalidateAll wipes every cached entry. Called when connection
// settings change so the next paint reflects the new servers.
func (s *SectionStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSections, bucketSeasons, bucketEpisodes, bucketChannels} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

package index

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
	"github.com/Roshanchokhani/rag-document-qa/internal/port"
)

var (
	bucketItems = []byte("items") // insertion-seq key -> stored item
	bucketIDs   = []byte("ids")   // chunk ID -> insertion-seq key
)

// BoltIndex is a flat vector index persisted in BoltDB so a corpus
// loaded in one process can be queried from another. Search runs
// against an in-memory mirror; writes go to both. Items are keyed by
// an insertion sequence so tie-breaking order survives reopening.
type BoltIndex struct {
	db  *bbolt.DB
	mem *MemoryIndex
}

type storedItem struct {
	Chunk  domain.Chunk `json:"chunk"`
	Vector []float32    `json:"vector"`
}

// NewBoltIndex creates the buckets if needed and loads any persisted
// vectors into memory.
func NewBoltIndex(db *bbolt.DB, dimension int) (*BoltIndex, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketItems); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketIDs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index buckets: %w", err)
	}

	x := &BoltIndex{
		db:  db,
		mem: NewMemoryIndex(dimension),
	}
	if err := x.loadItems(); err != nil {
		return nil, fmt.Errorf("failed to load persisted vectors: %w", err)
	}
	return x, nil
}

// loadItems replays persisted items into the in-memory mirror in
// insertion-sequence order (bbolt iterates keys in byte order).
func (x *BoltIndex) loadItems() error {
	return x.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketItems)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var stored storedItem
			if err := json.Unmarshal(v, &stored); err != nil {
				return nil // skip corrupted entries
			}
			return x.mem.Add([]port.VectorItem{{Chunk: stored.Chunk, Vector: stored.Vector}})
		})
	})
}

func (x *BoltIndex) Add(items []port.VectorItem) error {
	// Validate and mirror first so a dimension error surfaces before
	// anything is persisted.
	if err := x.mem.Add(items); err != nil {
		return err
	}

	return x.db.Update(func(tx *bbolt.Tx) error {
		itemsBucket := tx.Bucket(bucketItems)
		idsBucket := tx.Bucket(bucketIDs)
		if itemsBucket == nil || idsBucket == nil {
			return fmt.Errorf("index buckets not found")
		}

		for _, item := range items {
			key := idsBucket.Get([]byte(item.Chunk.ID))
			if key == nil {
				seq, err := itemsBucket.NextSequence()
				if err != nil {
					return err
				}
				key = make([]byte, 8)
				binary.BigEndian.PutUint64(key, seq)
				if err := idsBucket.Put([]byte(item.Chunk.ID), key); err != nil {
					return err
				}
			}

			data, err := json.Marshal(storedItem{Chunk: item.Chunk, Vector: item.Vector})
			if err != nil {
				return err
			}
			if err := itemsBucket.Put(key, data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (x *BoltIndex) Query(vector []float32, k int) ([]domain.RetrievalResult, error) {
	return x.mem.Query(vector, k)
}

func (x *BoltIndex) Len() int {
	return x.mem.Len()
}

func (x *BoltIndex) Items() []port.VectorItem {
	return x.mem.Items()
}

func (x *BoltIndex) Clear() error {
	if err := x.mem.Clear(); err != nil {
		return err
	}
	return x.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketItems, bucketIDs} {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

package dataset

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/boltdb/bolt"
)

var (
	examplesBucket = []byte("examples")
	metaBucket     = []byte("meta")
	countKey       = []byte("count")
	widthKey       = []byte("width")
)

// importBatch is the number of examples written per bolt transaction.
const importBatch = 1000

func indexKey(i int) []byte {
	p := make([]byte, 4)
	binary.BigEndian.PutUint32(p, uint32(i))
	return p
}

// encodeExample lays out an example as a big-endian uint32 class followed
// by float64 little-endian features.
func encodeExample(ex Example) []byte {
	buf := make([]byte, 4, 4+8*len(ex.Features))
	binary.BigEndian.PutUint32(buf, uint32(ex.Class))
	for _, f := range ex.Features {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
	}
	return buf
}

func decodeExample(p []byte, width int) (Example, error) {
	if len(p) != 4+8*width {
		return Example{}, fmt.Errorf("%w: record of %d bytes for width %d", ErrInvalidSizes, len(p), width)
	}
	features := make([]float64, width)
	for i := range features {
		features[i] = math.Float64frombits(binary.LittleEndian.Uint64(p[4+8*i:]))
	}
	return Example{Class: int(binary.BigEndian.Uint32(p[:4])), Features: features}, nil
}

// Import writes every example of src into a bolt database at path,
// replacing any examples already stored there. It returns the number of
// examples written.
//
// All examples must share the width of the first one.
func Import(path string, src Source) (int, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return 0, fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{examplesBucket, metaBucket} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	width := -1
	n := src.Len()
	for start := 0; start < n; start += importBatch {
		end := min(start+importBatch, n)
		err := db.Update(func(tx *bolt.Tx) error {
			bucket := tx.Bucket(examplesBucket)
			for i := start; i < end; i++ {
				ex, err := src.Example(i)
				if err != nil {
					return err
				}
				if width < 0 {
					width = len(ex.Features)
				}
				if len(ex.Features) != width {
					return fmt.Errorf("%w: example %d has %d features, want %d",
						ErrInvalidSizes, i, len(ex.Features), width)
				}
				if err := bucket.Put(indexKey(i), encodeExample(ex)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return start, err
		}
	}

	err = db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket(metaBucket)
		if err := meta.Put(countKey, indexKey(n)); err != nil {
			return err
		}
		return meta.Put(widthKey, indexKey(max(width, 0)))
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Store is a read-only Source backed by a bolt database written by Import.
// Examples are decoded on access.
type Store struct {
	db    *bolt.DB
	count int
	width int
}

// OpenStore opens the store at path read-only.
func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	s := &Store{db: db}
	err = db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(metaBucket)
		if meta == nil || tx.Bucket(examplesBucket) == nil {
			return ErrEmptyStore
		}
		count, width := meta.Get(countKey), meta.Get(widthKey)
		if len(count) != 4 || len(width) != 4 {
			return fmt.Errorf("%w: malformed meta bucket", ErrEmptyStore)
		}
		s.count = int(binary.BigEndian.Uint32(count))
		s.width = int(binary.BigEndian.Uint32(width))
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Len returns the number of stored examples.
func (s *Store) Len() int {
	return s.count
}

// InputSize returns the feature vector width.
func (s *Store) InputSize() int {
	return s.width
}

// Example reads and decodes example i.
func (s *Store) Example(i int) (Example, error) {
	if i < 0 || i >= s.count {
		return Example{}, fmt.Errorf("%w: example %d of %d", ErrOutOfRange, i, s.count)
	}
	var ex Example
	err := s.db.View(func(tx *bolt.Tx) error {
		p := tx.Bucket(examplesBucket).Get(indexKey(i))
		if p == nil {
			return fmt.Errorf("%w: example %d missing", ErrOutOfRange, i)
		}
		var err error
		ex, err = decodeExample(p, s.width)
		return err
	})
	return ex, err
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

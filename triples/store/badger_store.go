package store

import (
	"bytes"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore implements Store using BadgerDB, one key per (index, triple)
// pair across all six permutations — the same fan-out-on-write strategy as
// the teacher's storage.BadgerStore.Assert, and the same options tuning
// (larger memtable/block cache, conflict detection off, small
// ValueThreshold since every value here is empty — keys alone carry the
// encoded triple).
type BadgerStore struct {
	db    *badger.DB
	codec keyCodec
}

// Open creates or opens a BadgerDB-backed store at path.
func Open(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	opts.MemTableSize = 128 << 20
	opts.BlockCacheSize = 256 << 20
	opts.IndexCacheSize = 100 << 20
	opts.DetectConflicts = false
	opts.NumCompactors = 4
	opts.ValueThreshold = 1 << 10

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Assert(ts []EncodedTriple) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, t := range ts {
			for _, idx := range AllIndexTypes {
				key := s.codec.encodeKey(idx, t)
				if err := txn.Set(key, nil); err != nil {
					return fmt.Errorf("store: failed to write %s index: %w", idx, err)
				}
			}
		}
		return nil
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Cursor opens a BadgerCursor scoped to index and prefix.
func (s *BadgerStore) Cursor(index IndexType, prefix []Code) (Cursor, error) {
	if len(prefix) > 3 {
		return nil, fmt.Errorf("store: prefix has %d codes, at most 3 fit in %s", len(prefix), index)
	}

	prefixKey := s.codec.encodePrefix(index, prefix)
	end := prefixUpperBound(prefixKey)

	txn := s.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)

	c := &BadgerCursor{
		txn:      txn,
		it:       it,
		prefix:   prefixKey,
		end:      end,
		focusOff: 1 + len(prefix)*slotWidth,
	}
	if err := c.seekToFirst(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// BadgerCursor implements Cursor over a single badger.Iterator, collapsing
// duplicate keys at the focused slot the way spec.md §4.2 requires
// ("Duplicate focus-slot codes within one prefix are collapsed by the
// cursor"). It follows the seek-then-advance shape of the teacher's
// BadgerIterator (datalog/storage/badger_store.go).
type BadgerCursor struct {
	txn      *badger.Txn
	it       *badger.Iterator
	prefix   []byte
	end      []byte
	focusOff int // byte offset of the focused slot within a key

	atEnd   bool
	current Code
}

func (c *BadgerCursor) inRange() bool {
	if !c.it.ValidForPrefix(c.prefix) {
		return false
	}
	if c.end != nil {
		if bytes.Compare(c.it.Item().Key(), c.end) >= 0 {
			return false
		}
	}
	return true
}

func (c *BadgerCursor) seekToFirst() error {
	c.it.Seek(c.prefix)
	return c.settle()
}

// settle reads the focused slot of the current item into c.current, or
// marks the cursor exhausted if out of range.
func (c *BadgerCursor) settle() error {
	if !c.inRange() {
		c.atEnd = true
		return nil
	}
	key := c.it.Item().KeyCopy(nil)
	c.current = decodeSlotAt(key, (c.focusOff-1)/slotWidth)
	c.atEnd = false
	return nil
}

func (c *BadgerCursor) Key() Code { return c.current }

func (c *BadgerCursor) AtEnd() bool { return c.atEnd }

// Next advances past every key sharing the current focus-slot value, so
// the next Key() seen (if any) is strictly greater.
func (c *BadgerCursor) Next() error {
	if c.atEnd {
		return nil
	}
	return c.Seek(c.current + 1)
}

// Seek advances to the first key whose focused slot is >= target. Because
// keys are lexicographically ordered and the focused slot is a fixed-width
// big-endian integer, seeking the underlying iterator straight to the
// prefix followed by target lands on the first key whose focused slot is
// >= target (or past the prefix, which settle reports as exhausted);
// settle then reads that slot without any further scanning.
func (c *BadgerCursor) Seek(target Code) error {
	if c.atEnd {
		return nil
	}
	if c.current >= target {
		return nil
	}

	seekKey := make([]byte, c.focusOff+slotWidth)
	copy(seekKey, c.prefix)
	putUint64(seekKey[c.focusOff:], target)

	c.it.Seek(seekKey)
	return c.settle()
}

func (c *BadgerCursor) Close() error {
	if c.it != nil {
		c.it.Close()
	}
	if c.txn != nil {
		c.txn.Discard()
	}
	return nil
}

func putUint64(b []byte, v Code) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

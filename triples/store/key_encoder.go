package store

import "encoding/binary"

// keyCodec builds and parses the fixed-width binary index keys backing
// BadgerStore. It plays the role of the teacher's BinaryKeyEncoder
// (datalog/storage/key_encoder_binary.go), simplified because encoded RDF
// terms are fixed-width uint64 Codes rather than the teacher's
// variable-length Value bytes — three 8-byte slots instead of
// Entity(20)+Attribute(32)+Value(variable)+Tx(20).
type keyCodec struct{}

const (
	slotWidth = 8 // bytes per encoded Code
	keyWidth  = 1 + 3*slotWidth
)

// encodeKey builds the full key for one encoded triple under index.
func (keyCodec) encodeKey(index IndexType, t EncodedTriple) []byte {
	order := index.SlotOrder()
	vals := [3]Code{t.S, t.P, t.O}

	key := make([]byte, keyWidth)
	key[0] = byte(index)
	for slot, pos := range order {
		binary.BigEndian.PutUint64(key[1+slot*slotWidth:], vals[pos])
	}
	return key
}

// encodePrefix builds a prefix key from already-bound leading codes, in
// index slot order. len(bound) must be 0, 1, 2, or 3.
func (keyCodec) encodePrefix(index IndexType, bound []Code) []byte {
	key := make([]byte, 1+len(bound)*slotWidth)
	key[0] = byte(index)
	for i, c := range bound {
		binary.BigEndian.PutUint64(key[1+i*slotWidth:], c)
	}
	return key
}

// prefixUpperBound returns the exclusive upper bound for a scan over all
// keys beginning with prefix: prefix with its last byte incremented,
// carrying as needed. A nil result means "no upper bound" (prefix was all
// 0xFF), which cannot occur here since the index-tag byte always leaves
// room to increment.
func prefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// decodeSlotAt reads the Code stored at the given key slot index
// (0-based, after the 1-byte index tag).
func decodeSlotAt(key []byte, slot int) Code {
	off := 1 + slot*slotWidth
	return binary.BigEndian.Uint64(key[off : off+slotWidth])
}

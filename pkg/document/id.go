package document

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// ObjectID identifies an object in a document. It is derived from the
// object's name and insertion sequence, so replaying the same inserts into a
// fresh document yields the same IDs.
type ObjectID string

// ZeroID is the empty ObjectID returned alongside errors.
const ZeroID ObjectID = ""

// NewObjectID hashes name and seq into an ObjectID.
func NewObjectID(name string, seq uint64) ObjectID {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatUint(seq, 10)))
	return ObjectID(hex.EncodeToString(h.Sum(nil)))
}

// IsZero reports whether id is the zero ID.
func (id ObjectID) IsZero() bool {
	return id == ZeroID
}

// Short returns the first 8 hex digits, for log and error messages.
func (id ObjectID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

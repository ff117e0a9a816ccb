package document

import (
	"time"

	"github.com/chazu/graph3d/pkg/kernel"
)

// ObjectKind enumerates the kinds of objects a document stores.
type ObjectKind int

const (
	ObjectSurface ObjectKind = iota // parametric surface
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectSurface:
		return "surface"
	default:
		return "unknown"
	}
}

// Object is a single entry of a document.
type Object struct {
	ID      ObjectID       `json:"id"`
	Kind    ObjectKind     `json:"kind"`
	Name    string         `json:"name"`
	Seq     uint64         `json:"seq"`
	Added   time.Time      `json:"added"`
	Surface kernel.Surface `json:"-"`
}

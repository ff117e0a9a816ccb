package document

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/graph3d/pkg/kernel"
)

// ErrSinkUnavailable is returned by Add once the document has been closed.
var ErrSinkUnavailable = errors.New("document sink unavailable")

// Document is an append-only collection of objects. Objects are never
// modified or removed once added. It is safe for concurrent use.
type Document struct {
	mu        sync.RWMutex
	objects   map[ObjectID]*Object
	order     []ObjectID
	nameIndex map[string]ObjectID
	version   uint64
	closed    bool

	// now is replaceable in tests.
	now func() time.Time
}

// New creates an empty, open document.
func New() *Document {
	return &Document{
		objects:   make(map[ObjectID]*Object),
		nameIndex: make(map[string]ObjectID),
		now:       time.Now,
	}
}

// Add stores s under name and returns its ID. An empty name is replaced by
// "surface_<n>". Adding a second object under an existing name keeps both
// objects; the name then resolves to the newer one.
func (d *Document) Add(name string, s kernel.Surface) (ObjectID, error) {
	if s == nil {
		return ZeroID, errors.New("document: nil surface")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ZeroID, fmt.Errorf("document: add %q: %w", name, ErrSinkUnavailable)
	}

	d.version++
	seq := d.version
	if name == "" {
		name = fmt.Sprintf("surface_%d", seq)
	}
	obj := &Object{
		ID:      NewObjectID(name, seq),
		Kind:    ObjectSurface,
		Name:    name,
		Seq:     seq,
		Added:   d.now(),
		Surface: s,
	}
	d.objects[obj.ID] = obj
	d.order = append(d.order, obj.ID)
	d.nameIndex[name] = obj.ID
	return obj.ID, nil
}

// Close stops the document from accepting objects. Reads keep working.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Get returns the object with the given ID, or nil.
func (d *Document) Get(id ObjectID) *Object {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.objects[id]
}

// Lookup returns the newest object with the given name, or nil.
func (d *Document) Lookup(name string) *Object {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.nameIndex[name]
	if !ok {
		return nil
	}
	return d.objects[id]
}

// Objects returns all objects in insertion order.
func (d *Document) Objects() []*Object {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Object, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.objects[id])
	}
	return out
}

// Len returns the number of objects.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

// Version returns the number of successful inserts so far.
func (d *Document) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

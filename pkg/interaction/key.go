package interaction

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Reader exposes encoded session values. *store.Session implements it.
type Reader interface {
	Raw(key string) (json.RawMessage, bool)
}

// Writer accepts encoded session values. *store.Session and *Batch implement it.
type Writer interface {
	PutRaw(key string, value json.RawMessage)
}

// Store is a session the controller can both read and commit into.
type Store interface {
	Reader
	Writer
}

// Namespace is the per-page key prefix.
type Namespace string

var (
	registryMu sync.Mutex
	namespaces = make(map[Namespace]struct{})
	keys       = make(map[string]struct{})
)

// NewNamespace registers a page prefix. Registering the same prefix twice panics.
func NewNamespace(name string) Namespace {
	if name == "" {
		panic("interaction: empty namespace")
	}
	registryMu.Lock()
	defer registryMu.Unlock()

	ns := Namespace(name)
	if _, dup := namespaces[ns]; dup {
		panic(fmt.Sprintf("interaction: namespace %q registered twice", name))
	}
	namespaces[ns] = struct{}{}
	return ns
}

// Key names one typed value inside a session.
type Key[T any] struct {
	ns     Namespace
	suffix string
}

// NewKey registers "<ns>_<suffix>". Registering the same key twice panics.
func NewKey[T any](ns Namespace, suffix string) Key[T] {
	if suffix == "" {
		panic("interaction: empty key suffix")
	}
	k := Key[T]{ns: ns, suffix: suffix}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := namespaces[ns]; !ok {
		panic(fmt.Sprintf("interaction: namespace %q is not registered", ns))
	}
	if _, dup := keys[k.String()]; dup {
		panic(fmt.Sprintf("interaction: key %q registered twice", k.String()))
	}
	keys[k.String()] = struct{}{}
	return k
}

func (k Key[T]) String() string {
	return string(k.ns) + "_" + k.suffix
}

func (k Key[T]) Namespace() Namespace {
	return k.ns
}

// Lookup decodes the value under k. ok is false when the key is absent.
func (k Key[T]) Lookup(r Reader) (value T, ok bool, err error) {
	raw, ok := r.Raw(k.String())
	if !ok {
		return value, false, nil
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		var zero T
		return zero, false, fmt.Errorf("decode %s: %w", k, err)
	}
	return value, true, nil
}

// Get is Lookup with undecodable values reported as absent.
func (k Key[T]) Get(r Reader) (T, bool) {
	v, ok, err := k.Lookup(r)
	if err != nil {
		return v, false
	}
	return v, ok
}

// GetOr returns the stored value or def when absent.
func (k Key[T]) GetOr(r Reader, def T) T {
	if v, ok := k.Get(r); ok {
		return v
	}
	return def
}

func (k Key[T]) Present(r Reader) bool {
	_, ok := k.Get(r)
	return ok
}

// State reports the key's render-visible state. Pending is never observable here.
func (k Key[T]) State(r Reader) State {
	if k.Present(r) {
		return StatePresent
	}
	return StateAbsent
}

// Put encodes v and writes it under k.
func (k Key[T]) Put(w Writer, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", k, err)
	}
	w.PutRaw(k.String(), raw)
	return nil
}

// Presence is satisfied by every Key[T].
type Presence interface {
	Present(r Reader) bool
	String() string
}

package interaction

import "encoding/json"

// Batch stages the writes of one Submit so they land together or not at all.
type Batch struct {
	values map[string]json.RawMessage
	order  []string
}

func NewBatch() *Batch {
	return &Batch{values: make(map[string]json.RawMessage)}
}

func (b *Batch) PutRaw(key string, value json.RawMessage) {
	if _, seen := b.values[key]; !seen {
		b.order = append(b.order, key)
	}
	b.values[key] = value
}

// Keys returns the staged keys in first-write order.
func (b *Batch) Keys() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

func (b *Batch) Len() int {
	return len(b.order)
}

func (b *Batch) commit(w Writer) {
	for _, k := range b.order {
		w.PutRaw(k, b.values[k])
	}
}

package protocol

import "fmt"

// Message is an ordered collection of uniquely named fields. Insertion order
// is wire order. The zero value is an empty message ready for use.
type Message struct {
	fields []Field
	index  map[string]int
}

// NewMessage builds a message from fields in order. Duplicate names fail.
func NewMessage(fields ...Field) (*Message, error) {
	m := &Message{}
	for _, f := range fields {
		if err := m.Add(f); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add appends f, failing if a field with the same name already exists.
func (m *Message) Add(f Field) error {
	if _, ok := m.lookup(f.Name); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
	}
	m.append(f)
	return nil
}

// Set stores f. An existing field of the same name is replaced in place.
func (m *Message) Set(f Field) {
	if i, ok := m.lookup(f.Name); ok {
		m.fields[i] = f
		return
	}
	m.append(f)
}

// Get returns the named field.
func (m *Message) Get(name string) (Field, bool) {
	i, ok := m.lookup(name)
	if !ok {
		return Field{}, false
	}
	return m.fields[i], true
}

// Delete removes the named field and reports whether it was present.
func (m *Message) Delete(name string) bool {
	i, ok := m.lookup(name)
	if !ok {
		return false
	}
	m.fields = append(m.fields[:i], m.fields[i+1:]...)
	m.reindex()
	return true
}

// Len reports the number of fields. A nil message has none.
func (m *Message) Len() int {
	if m == nil {
		return 0
	}
	return len(m.fields)
}

// Fields returns a copy of the fields in wire order.
func (m *Message) Fields() []Field {
	if m == nil {
		return nil
	}
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// Names returns the field names in wire order.
func (m *Message) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.fields))
	for i, f := range m.fields {
		out[i] = f.Name
	}
	return out
}

func (m *Message) lookup(name string) (int, bool) {
	if m == nil || m.index == nil {
		return 0, false
	}
	i, ok := m.index[name]
	return i, ok
}

func (m *Message) append(f Field) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[f.Name] = len(m.fields)
	m.fields = append(m.fields, f)
}

func (m *Message) reindex() {
	m.index = make(map[string]int, len(m.fields))
	for i, f := range m.fields {
		m.index[f.Name] = i
	}
}

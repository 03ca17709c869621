package htmltable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Key identifies a value within a Record. It is either a name derived from a
// header cell or an override, or the zero-based column position when no
// name is known.
type Key struct {
	name    string
	index   int
	byIndex bool
}

// NameKey returns a named key.
func NameKey(name string) Key {
	return Key{name: name}
}

// IndexKey returns a positional key.
func IndexKey(i int) Key {
	return Key{index: i, byIndex: true}
}

// ParseKey is the inverse of Key.String: non-negative decimal integers
// become positional keys, everything else a named key.
func ParseKey(s string) Key {
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && strconv.Itoa(n) == s {
		return IndexKey(n)
	}
	return NameKey(s)
}

// Name returns the key name and true for a named key.
func (k Key) Name() (string, bool) {
	return k.name, !k.byIndex
}

// Index returns the position and true for a positional key.
func (k Key) Index() (int, bool) {
	return k.index, k.byIndex
}

// String returns the name, or the position in decimal.
func (k Key) String() string {
	if k.byIndex {
		return strconv.Itoa(k.index)
	}
	return k.name
}

// GobEncode implements gob.GobEncoder.
func (k Key) GobEncode() ([]byte, error) {
	if k.byIndex {
		return []byte("i" + strconv.Itoa(k.index)), nil
	}
	return []byte("n" + k.name), nil
}

// GobDecode implements gob.GobDecoder.
func (k *Key) GobDecode(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty key")
	}
	switch data[0] {
	case 'i':
		n, err := strconv.Atoi(string(data[1:]))
		if err != nil {
			return fmt.Errorf("invalid positional key: %w", err)
		}
		*k = IndexKey(n)
	case 'n':
		*k = NameKey(string(data[1:]))
	default:
		return fmt.Errorf("unknown key kind %q", data[0])
	}
	return nil
}

// Field is a single key-value pair of a Record.
type Field struct {
	Key   Key
	Value string
}

// Record maps column keys to cell text, preserving the order in which the
// columns were encountered.
type Record struct {
	Fields []Field
}

// Set stores value under key. An existing key keeps its position.
func (r *Record) Set(key Key, value string) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (r Record) Get(key Key) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Keys returns the record keys in order.
func (r Record) Keys() []Key {
	keys := make([]Key, 0, len(r.Fields))
	for _, f := range r.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.Fields)
}

// MarshalJSON encodes the record as a JSON object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key.String())
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields []Field
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("record field %q: %w", key, err)
		}
		fields = append(fields, Field{Key: ParseKey(key), Value: value})
		return nil
	})
	if err != nil {
		return err
	}
	r.Fields = fields
	return nil
}

// decodeObject walks the members of a JSON object in document order.
func decodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

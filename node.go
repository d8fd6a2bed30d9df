package casewatch

import (
	"bytes"
	"encoding/json"
)

// Node is a value in a case record tree. A record is built from Objects,
// Lists and scalar leaves, where every leaf is either Text or Null.
type Node interface {
	json.Marshaler
	isNode()
}

// Compile-time interface verification.
var (
	_ Node = Text("")
	_ Node = Null{}
	_ Node = Object(nil)
	_ Node = List(nil)
)

// Text is a string leaf.
type Text string

// Null is the absent marker. It is serialized as JSON null.
type Null struct{}

// Field is a single key/value pair of an Object.
type Field struct {
	Key   string
	Value Node
}

// Object is a mapping that keeps its keys in insertion order.
type Object []Field

// List is an ordered sequence of nodes.
type List []Node

func (Text) isNode()   {}
func (Null) isNode()   {}
func (Object) isNode() {}
func (List) isNode()   {}

// TextValue returns s as a Text leaf, or Null when s is empty.
func TextValue(s string) Node {
	if s == "" {
		return Null{}
	}
	return Text(s)
}

// Get returns the value stored under key.
func (o Object) Get(key string) (Node, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the object's keys in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, f := range o {
		keys[i] = f.Key
	}
	return keys
}

// Set replaces the value under key, or appends the key if it is new.
func (o Object) Set(key string, value Node) Object {
	for i, f := range o {
		if f.Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Field{Key: key, Value: value})
}

// MarshalJSON encodes the text without escaping HTML characters.
func (t Text) MarshalJSON() ([]byte, error) {
	return marshalString(string(t))
}

// MarshalJSON encodes the absent marker as null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON encodes the object with its keys in insertion order.
// A nil Object encodes as {}.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalString(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := marshalNode(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the list. A nil List encodes as [].
func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, n := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalNode(n)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalNode(n Node) ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return n.MarshalJSON()
}

// marshalString encodes s as a JSON string, leaving non-ASCII and HTML
// characters literal.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

package normalize

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type kind int

const (
	kindInvalid kind = iota
	kindArray
	kindObject
	kindScalar
)

type field struct {
	key string
	raw []byte
}

// node is a shallow view of a JSON document. Object members keep document order.
type node struct {
	kind   kind
	raw    []byte
	fields []field
}

// lookup returns the last member named key, matching how JSON decoders resolve duplicates.
func (n node) lookup(key string) (node, bool) {
	for i := len(n.fields) - 1; i >= 0; i-- {
		if n.fields[i].key == key {
			return parse(n.fields[i].raw), true
		}
	}
	return node{}, false
}

func parse(raw []byte) node {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !json.Valid(raw) {
		return node{}
	}

	iter := json.BorrowIterator(raw)
	defer json.ReturnIterator(iter)

	switch iter.WhatIsNext() {
	case jsoniter.ArrayValue:
		return node{kind: kindArray, raw: raw}
	case jsoniter.ObjectValue:
		n := node{kind: kindObject, raw: raw}
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			n.fields = append(n.fields, field{key: key, raw: it.SkipAndReturnBytes()})
			return it.Error == nil
		})
		if iter.Error != nil {
			return node{}
		}
		return n
	case jsoniter.InvalidValue:
		return node{}
	default:
		return node{kind: kindScalar, raw: raw}
	}
}

// elements decodes every object element of an array node into T, skipping the rest.
func elements[T any](n node) []T {
	if n.kind != kindArray {
		return nil
	}

	iter := json.BorrowIterator(n.raw)
	defer json.ReturnIterator(iter)

	var out []T
	iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
		b := bytes.TrimSpace(it.SkipAndReturnBytes())
		if it.Error != nil {
			return false
		}
		if len(b) == 0 || b[0] != '{' {
			return true
		}
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			out = append(out, v)
		}
		return true
	})
	return out
}

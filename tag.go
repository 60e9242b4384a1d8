// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020-2022
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package flow

import "fmt"

// Tag is an out-of-band annotation attached to a specific absolute item
// offset within a Stream. Tags are delivered to the consumer alongside
// the items at that offset and are never part of the item type T
// itself, so a Block can be written generically over T without knowing
// anything about the tag payloads that ride along with it.
type Tag struct {
	// Offset is the absolute item index within the stream (not the
	// ring's internal, wrapped index) that this tag applies to.
	Offset uint64

	// Key identifies the tag. Blocks agree on key names out of band;
	// the core does not interpret them.
	Key string

	Value TagValue
}

// tagValueKind identifies which field of a TagValue is populated.
type tagValueKind uint8

const (
	tagValueBool tagValueKind = iota
	tagValueInt
	tagValueFloat
	tagValueString
	tagValueBytes
)

// TagValue is a small, closed tagged union: a bool, an int64, a
// float64, a string, or a byte slice. More elaborate payloads travel as
// bytes and are interpreted by the receiving block; the core never
// looks inside a TagValue.
type TagValue struct {
	kind tagValueKind
	b    bool
	i    int64
	f    float64
	s    string
	by   []byte
}

// BoolTag constructs a boolean TagValue.
func BoolTag(v bool) TagValue { return TagValue{kind: tagValueBool, b: v} }

// IntTag constructs an integer TagValue.
func IntTag(v int64) TagValue { return TagValue{kind: tagValueInt, i: v} }

// FloatTag constructs a floating-point TagValue.
func FloatTag(v float64) TagValue { return TagValue{kind: tagValueFloat, f: v} }

// StringTag constructs a string TagValue.
func StringTag(v string) TagValue { return TagValue{kind: tagValueString, s: v} }

// BytesTag constructs a byte-slice TagValue. The slice is stored as
// given; callers must not mutate it afterwards.
func BytesTag(v []byte) TagValue { return TagValue{kind: tagValueBytes, by: v} }

// Bool returns the boolean payload and true if this TagValue holds one.
func (t TagValue) Bool() (bool, bool) { return t.b, t.kind == tagValueBool }

// Int returns the integer payload and true if this TagValue holds one.
func (t TagValue) Int() (int64, bool) { return t.i, t.kind == tagValueInt }

// Float returns the float payload and true if this TagValue holds one.
func (t TagValue) Float() (float64, bool) { return t.f, t.kind == tagValueFloat }

// String returns the string payload and true if this TagValue holds
// one. Its (string, bool) result means TagValue does not satisfy
// fmt.Stringer: a TagValue holding an int or a float has no canonical
// string spelling that every caller would want, so there's no
// String() string method; GoString covers debug output.
func (t TagValue) String() (string, bool) { return t.s, t.kind == tagValueString }

// Bytes returns the byte payload and true if this TagValue holds one.
func (t TagValue) Bytes() ([]byte, bool) { return t.by, t.kind == tagValueBytes }

// GoString renders the TagValue for debugging and test failure output.
func (t TagValue) GoString() string {
	switch t.kind {
	case tagValueBool:
		return fmt.Sprintf("flow.BoolTag(%v)", t.b)
	case tagValueInt:
		return fmt.Sprintf("flow.IntTag(%d)", t.i)
	case tagValueFloat:
		return fmt.Sprintf("flow.FloatTag(%v)", t.f)
	case tagValueString:
		return fmt.Sprintf("flow.StringTag(%q)", t.s)
	case tagValueBytes:
		return fmt.Sprintf("flow.BytesTag(% x)", t.by)
	default:
		return "flow.TagValue(?)"
	}
}

// vim: foldmethod=marker

package sphinx

import "sort"

// Type enumerates the section keywords of the sphinx configuration grammar.
type Type string

const (
	TypeSource  Type = "source"
	TypeIndex   Type = "index"
	TypeIndexer Type = "indexer"
	TypeSearchd Type = "searchd"
	TypeSearch  Type = "search"
)

// ParseType maps a raw keyword to a Type.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeSource, TypeIndex, TypeIndexer, TypeSearchd, TypeSearch:
		return Type(s), true
	}
	return "", false
}

// Valid reports whether t is one of the five section keywords.
func (t Type) Valid() bool {
	_, ok := ParseType(string(t))
	return ok
}

// Named reports whether sections of this type carry a name.
// source/index 需要名字，indexer/searchd/search 每种最多一个匿名 section。
func (t Type) Named() bool {
	return t == TypeSource || t == TypeIndex
}

// Value is an opaque configuration value: an ordered list of strings.
// A single-element Value is a scalar; a key declared multiple times in the
// source text accumulates additional elements in declaration order.
type Value []string

// Scalar wraps a single string as a Value.
func Scalar(s string) Value { return Value{s} }

// List wraps an ordered list of strings as a Value.
func List(items ...string) Value { return Value(items) }

// IsList reports whether v holds more than one element.
func (v Value) IsList() bool { return len(v) > 1 }

// First returns the first element, or "" for an empty Value.
func (v Value) First() string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// clone 返回独立存储的副本，避免 section 之间共享底层数组。
func (v Value) clone() Value {
	if v == nil {
		return nil
	}
	out := make(Value, len(v))
	copy(out, v)
	return out
}

// Section is a single typed, optionally named configuration block.
// All mutation after parse time goes through Document so inheritance
// propagation stays consistent; direct field access is deliberately absent.
type Section struct {
	typ       Type
	name      string
	parent    string
	children  []string
	data      map[string]Value
	inherited map[string]bool
}

// NewSection 创建 Section 并初始化内部 map。
func NewSection(typ Type, name string) *Section {
	return &Section{
		typ:       typ,
		name:      name,
		data:      make(map[string]Value),
		inherited: make(map[string]bool),
	}
}

// Type returns the section keyword.
func (s *Section) Type() Type { return s.typ }

// Name returns the section name, or "" for nameless types.
func (s *Section) Name() string { return s.name }

// Parent returns the name of the section this one inherits from, or "".
func (s *Section) Parent() string { return s.parent }

// Children returns the names of sections that declared this one as parent.
func (s *Section) Children() []string {
	out := make([]string, len(s.children))
	copy(out, s.children)
	return out
}

// Keys returns the section's keys in sorted order.
func (s *Section) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Value returns an independent copy of the value stored under key.
// The second result is false when the key is absent; an absent key is
// distinct from a key holding an empty string.
func (s *Section) Value(key string) (Value, bool) {
	v, ok := s.data[key]
	if !ok {
		return nil, false
	}
	return v.clone(), true
}

// Inherited reports whether the section's current value for key is still
// exactly what inheritance would produce. Keys never touched by inheritance
// or by an explicit set are treated as not inherited.
func (s *Section) Inherited(key string) bool {
	return s.inherited[key]
}

// Pairs returns a deep copy of the section's whole data mapping.
func (s *Section) Pairs() map[string]Value {
	out := make(map[string]Value, len(s.data))
	for key, v := range s.data {
		out[key] = v.clone()
	}
	return out
}

// AddPair applies the parse-time insertion policy for a "key = value" line:
// a key that exists locally (not via inheritance) is promoted to a list and
// the new value appended; otherwise the value replaces whatever was there
// (including an inherited copy) as a scalar and the key becomes local.
func (s *Section) AddPair(key, value string) {
	if v, ok := s.data[key]; ok && !s.inherited[key] {
		s.data[key] = append(v, value)
		return
	}
	s.data[key] = Value{value}
	s.inherited[key] = false
}

// InheritFrom records parent as this section's single parent and seeds the
// section with a deep copy of the parent's current data, every copied key
// flagged inherited. 解析期调用一次；之后父子关系不可变。
func (s *Section) InheritFrom(parent *Section) {
	s.parent = parent.name
	for key, v := range parent.data {
		s.data[key] = v.clone()
		s.inherited[key] = true
	}
	parent.children = append(parent.children, s.name)
}

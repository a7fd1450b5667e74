package sphinx

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/honeybbq/sphinxconf/pkg/scerrors"
)

// keyPattern matches the identifiers the grammar accepts on the left of '='.
var keyPattern = regexp.MustCompile(`^\w+$`)

// checkIdentity validates the (typ, name) shape of an edit call.
// 用法错误返回 KindArgument，与解析错误严格区分。
func checkIdentity(typ Type, name string) error {
	if !typ.Valid() {
		return scerrors.New(scerrors.KindArgument, fmt.Errorf("unknown section type %q", string(typ)))
	}
	if typ.Named() && name == "" {
		return scerrors.New(scerrors.KindArgument, fmt.Errorf("%s sections require a name", typ))
	}
	if !typ.Named() && name != "" {
		return scerrors.New(scerrors.KindArgument, fmt.Errorf("%s sections are nameless, got name %q", typ, name))
	}
	return nil
}

// Get returns an independent copy of the value stored under key in the
// section identified by (typ, name). The second result is false when either
// the section or the key is absent; absence is not an error.
func (d *Document) Get(typ Type, name, key string) (Value, bool) {
	s, ok := d.Lookup(typ, name)
	if !ok {
		return nil, false
	}
	return s.Value(key)
}

// Set updates key on the section identified by (typ, name), creating and
// appending the section when the identity does not exist yet. A nil value
// deletes the key. The change is bestowed onto direct children according to
// the preserve-inheritance mode; it never cascades past one generation in a
// single call — a grandchild moves only when a later Set lands on the middle
// generation.
//
// Returns the affected section so callers can read back the updated mapping.
func (d *Document) Set(typ Type, name, key string, value Value) (*Section, error) {
	if err := checkIdentity(typ, name); err != nil {
		return nil, err
	}
	if !keyPattern.MatchString(key) {
		return nil, scerrors.New(scerrors.KindArgument, fmt.Errorf("invalid key %q", key))
	}
	s, ok := d.Lookup(typ, name)
	if !ok {
		s = NewSection(typ, name)
		d.Append(s)
	}
	d.setKey(s, key, value)
	return s, nil
}

// Replace swaps the section's entire data mapping for pairs, creating the
// section when absent. Equivalent to looping Set over the union of old and
// new keys: keys missing from pairs are deleted, every key present in pairs
// becomes a local (non-inherited) value, and each per-key change is bestowed
// onto direct children under the usual rules.
func (d *Document) Replace(typ Type, name string, pairs map[string]Value) (*Section, error) {
	if err := checkIdentity(typ, name); err != nil {
		return nil, err
	}
	if pairs == nil {
		return nil, scerrors.New(scerrors.KindArgument, fmt.Errorf("replace requires a key/value mapping"))
	}
	for key, v := range pairs {
		if !keyPattern.MatchString(key) {
			return nil, scerrors.New(scerrors.KindArgument, fmt.Errorf("invalid key %q", key))
		}
		if v == nil {
			return nil, scerrors.New(scerrors.KindArgument, fmt.Errorf("nil value for key %q", key))
		}
	}
	s, ok := d.Lookup(typ, name)
	if !ok {
		s = NewSection(typ, name)
		d.Append(s)
	}
	for _, key := range unionKeys(s.data, pairs) {
		if v, ok := pairs[key]; ok {
			d.setKey(s, key, v)
		} else {
			d.setKey(s, key, nil)
		}
	}
	return s, nil
}

// setKey is the single-key propagation algorithm: apply the change locally,
// latch the key as a local override, then bestow onto direct children.
func (d *Document) setKey(s *Section, key string, value Value) {
	if value == nil {
		delete(s.data, key)
	} else {
		s.data[key] = value.clone()
	}
	s.inherited[key] = false
	d.bestow(s, key, value)
}

// bestow pushes a parent-side change of key onto direct children.
//
// preserve-inheritance 开启时：仅当子 section 仍然纯继承该 key 时跟随父值
// （inherited 标记保持 true）。关闭时：子数据不动，仅把 inherited 置 false，
// 永久脱离后续传播（单向闩锁，重新开启模式也不会恢复）。
func (d *Document) bestow(s *Section, key string, value Value) {
	for _, childName := range s.children {
		child, ok := d.Lookup(s.typ, childName)
		if !ok {
			continue
		}
		if !d.preserve {
			child.inherited[key] = false
			continue
		}
		if !child.inherited[key] {
			continue
		}
		if value == nil {
			delete(child.data, key)
		} else {
			child.data[key] = value.clone()
		}
	}
}

// unionKeys 返回两个映射键的并集，排序保证遍历确定性。
func unionKeys(a map[string]Value, b map[string]Value) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for key := range a {
		seen[key] = struct{}{}
	}
	for key := range b {
		seen[key] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

package sphinx

// sectionKey is the lookup identity: the name part is "" for nameless types.
type sectionKey struct {
	typ  Type
	name string
}

// Document is the in-memory form of one configuration file: an ordered
// sequence of sections plus a (type, name) lookup index kept in lockstep.
// Order is significant and survives parse → edit → serialize; new sections
// append at the end.
//
// A Document has single-owner semantics: one goroutine mutates it in place,
// no locking is provided.
type Document struct {
	sections []*Section
	index    map[sectionKey]*Section
	preserve bool
}

// NewDocument 创建空文档，preserve-inheritance 模式默认开启。
func NewDocument() *Document {
	return &Document{
		index:    make(map[sectionKey]*Section),
		preserve: true,
	}
}

// PreserveInheritance reports whether the document-wide mode flag is on.
func (d *Document) PreserveInheritance() bool { return d.preserve }

// SetPreserveInheritance toggles the mode flag. Keys already detached while
// the mode was off stay detached; re-enabling does not restore them.
func (d *Document) SetPreserveInheritance(on bool) { d.preserve = on }

// Len returns the number of sections in document order.
func (d *Document) Len() int { return len(d.sections) }

// Sections returns the sections in document order. The slice is a copy; the
// sections themselves are shared.
func (d *Document) Sections() []*Section {
	out := make([]*Section, len(d.sections))
	copy(out, d.sections)
	return out
}

// Lookup returns the section registered under (typ, name). For nameless
// types name must be "".
func (d *Document) Lookup(typ Type, name string) (*Section, bool) {
	s, ok := d.index[sectionKey{typ: typ, name: name}]
	return s, ok
}

// Append adds s at the end of the document and registers it in the index.
// When the identity is already taken, the newcomer wins the index slot while
// both sections remain in the ordered sequence.
func (d *Document) Append(s *Section) {
	d.sections = append(d.sections, s)
	d.index[sectionKey{typ: s.typ, name: s.name}] = s
}

// RemoveSection removes the section registered under (typ, name) from both
// the index and the ordered sequence, and detaches it from its parent's
// children list. Children of the removed section keep their fully resolved
// data; they simply stop receiving bestowals.
func (d *Document) RemoveSection(typ Type, name string) bool {
	key := sectionKey{typ: typ, name: name}
	s, ok := d.index[key]
	if !ok {
		return false
	}
	delete(d.index, key)
	for i, candidate := range d.sections {
		if candidate == s {
			d.sections = append(d.sections[:i], d.sections[i+1:]...)
			break
		}
	}
	if s.parent != "" {
		if parent, ok := d.Lookup(typ, s.parent); ok {
			parent.dropChild(s.name)
		}
	}
	return true
}

// dropChild 从 children 列表移除一个名字（保持其余顺序）。
func (s *Section) dropChild(name string) {
	for i, child := range s.children {
		if child == name {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

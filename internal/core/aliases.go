package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AliasName names a group of color codes. Alias names and color codes share
// one string namespace; a member string is an alias reference exactly when
// it is a key of the alias table.
type AliasName string

// Reserved alias names seeded at onboarding. The engine does not treat them
// specially beyond BlankAlias being the fill used when clearing a cell.
const (
	BlankAlias AliasName = " "
	SolidAlias AliasName = "#"
)

// autoNameRanges is the deterministic sequence used by Define when no name
// is given: a-z, then Greek lower case.
var autoNameRanges = [][2]rune{{'a', 'z'}, {'α', 'ω'}}

// Aliases is the alias table: name → ordered member list.
// The table never contains a cycle; AddMember refuses inserts that would
// create one.
type Aliases struct {
	order   []AliasName
	members map[AliasName][]string
}

// NewAliases creates an empty alias table.
func NewAliases() *Aliases {
	return &Aliases{members: make(map[AliasName][]string)}
}

// IsAlias reports whether s is a defined alias name.
func (a *Aliases) IsAlias(s string) bool {
	_, ok := a.members[AliasName(s)]
	return ok
}

// Names returns alias names in creation order.
func (a *Aliases) Names() []AliasName {
	out := make([]AliasName, len(a.order))
	copy(out, a.order)
	return out
}

// Len returns the number of aliases.
func (a *Aliases) Len() int {
	return len(a.order)
}

// Members returns a copy of the direct members of name.
func (a *Aliases) Members(name AliasName) []string {
	m := a.members[name]
	out := make([]string, len(m))
	copy(out, m)
	return out
}

// Define appends member to alias name, creating the alias if needed.
// An empty name picks the next unused auto name. Returns the alias name.
// Like AddMember, a member that would create a cycle is ignored.
func (a *Aliases) Define(name AliasName, member string) AliasName {
	if name == "" {
		name = a.NextName(nil)
	}
	a.ensure(name)
	a.AddMember(name, member, -1)
	return name
}

// NextName returns the first name of the auto-name sequence that is neither
// an alias nor referenced as a member anywhere in the table. Codes of p, when
// given, are skipped too.
func (a *Aliases) NextName(p *Palette) AliasName {
	used := make(map[string]bool)
	if p != nil {
		for _, code := range p.order {
			used[string(code)] = true
		}
	}
	for _, name := range a.order {
		used[string(name)] = true
		for _, m := range a.members[name] {
			used[m] = true
		}
	}
	for _, rng := range autoNameRanges {
		for r := rng[0]; r <= rng[1]; r++ {
			if !used[string(r)] {
				return AliasName(string(r))
			}
		}
	}
	for r := rune(0xE000); ; r++ {
		if !used[string(r)] {
			return AliasName(string(r))
		}
	}
}

// Create adds an empty alias. It returns false if name already exists.
func (a *Aliases) Create(name AliasName) bool {
	if a.IsAlias(string(name)) {
		return false
	}
	a.ensure(name)
	return true
}

func (a *Aliases) ensure(name AliasName) {
	if _, ok := a.members[name]; !ok {
		a.members[name] = []string{}
		a.order = append(a.order, name)
	}
}

// Expand flattens name into color codes, depth first, preserving member
// order and keeping duplicates. Unknown names expand to nothing.
func (a *Aliases) Expand(name AliasName) []ColorCode {
	var out []ColorCode
	a.expand(name, map[AliasName]bool{}, &out)
	return out
}

func (a *Aliases) expand(name AliasName, path map[AliasName]bool, out *[]ColorCode) {
	// path guards against cyclic tables that bypassed AddMember
	if path[name] {
		return
	}
	path[name] = true
	defer delete(path, name)

	for _, m := range a.members[name] {
		if a.IsAlias(m) {
			a.expand(AliasName(m), path, out)
			continue
		}
		*out = append(*out, ColorCode(m))
	}
}

// Matches reports whether code is in the expansion of name.
func (a *Aliases) Matches(name AliasName, code ColorCode) bool {
	for _, c := range a.Expand(name) {
		if c == code {
			return true
		}
	}
	return false
}

// Contains reports whether item appears among the direct or transitive
// members of name.
func (a *Aliases) Contains(name AliasName, item string) bool {
	return a.contains(name, item, map[AliasName]bool{})
}

func (a *Aliases) contains(name AliasName, item string, seen map[AliasName]bool) bool {
	if seen[name] {
		return false
	}
	seen[name] = true
	for _, m := range a.members[name] {
		if m == item {
			return true
		}
		if a.IsAlias(m) && a.contains(AliasName(m), item, seen) {
			return true
		}
	}
	return false
}

// AddMember inserts item into target at index (append when index is out of
// range). It is a no-op returning false when item is target itself or an
// alias that already contains target.
func (a *Aliases) AddMember(target AliasName, item string, index int) bool {
	if item == string(target) {
		return false
	}
	if a.IsAlias(item) && a.Contains(AliasName(item), string(target)) {
		return false
	}

	a.ensure(target)
	m := a.members[target]
	if index < 0 || index >= len(m) {
		a.members[target] = append(m, item)
		return true
	}
	m = append(m, "")
	copy(m[index+1:], m[index:])
	m[index] = item
	a.members[target] = m
	return true
}

// RemoveMember removes and returns the member of alias at index.
// Returns false if alias or index does not exist.
func (a *Aliases) RemoveMember(alias AliasName, index int) (string, bool) {
	m, ok := a.members[alias]
	if !ok || index < 0 || index >= len(m) {
		return "", false
	}
	item := m[index]
	a.members[alias] = append(m[:index:index], m[index+1:]...)
	return item, true
}

// Delete removes alias name. References to it from other aliases become
// plain (unresolved) member strings.
func (a *Aliases) Delete(name AliasName) bool {
	if _, ok := a.members[name]; !ok {
		return false
	}
	delete(a.members, name)
	for i, n := range a.order {
		if n == name {
			a.order = append(a.order[:i:i], a.order[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns an independent copy.
func (a *Aliases) Clone() *Aliases {
	c := NewAliases()
	for _, name := range a.order {
		c.order = append(c.order, name)
		c.members[name] = a.Members(name)
	}
	return c
}

// Equal reports whether both tables have the same aliases, in the same
// order, with the same member lists.
func (a *Aliases) Equal(other *Aliases) bool {
	if len(a.order) != len(other.order) {
		return false
	}
	for i, name := range a.order {
		if other.order[i] != name {
			return false
		}
		am, om := a.members[name], other.members[name]
		if len(am) != len(om) {
			return false
		}
		for j := range am {
			if am[j] != om[j] {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes the table as an object, keys in creation order.
func (a *Aliases) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range a.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(name))
		if err != nil {
			return nil, err
		}
		members, err := json.Marshal(a.Members(name))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(members)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of name → member list, keeping key order.
// Members that would introduce a cycle are dropped.
func (a *Aliases) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("aliases: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("aliases: expected object, got %v", tok)
	}

	var entries []AliasEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("aliases: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("aliases: expected key, got %v", tok)
		}
		var members []string
		if err := dec.Decode(&members); err != nil {
			return fmt.Errorf("aliases: alias %q: %w", key, err)
		}
		entries = append(entries, AliasEntry{Name: AliasName(key), Members: members})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("aliases: %w", err)
	}

	*a = *AliasesFromEntries(entries)
	return nil
}

// AliasEntry is one alias with its members, used by serializers.
type AliasEntry struct {
	Name    AliasName
	Members []string
}

// Entries returns the table as an ordered list.
func (a *Aliases) Entries() []AliasEntry {
	out := make([]AliasEntry, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, AliasEntry{Name: name, Members: a.Members(name)})
	}
	return out
}

// AliasesFromEntries builds a table from an ordered list. All names are
// created first so that forward references resolve as aliases; members that
// would introduce a cycle are dropped.
func AliasesFromEntries(entries []AliasEntry) *Aliases {
	a := NewAliases()
	for _, e := range entries {
		a.ensure(e.Name)
	}
	for _, e := range entries {
		for _, m := range e.Members {
			a.AddMember(e.Name, m, -1)
		}
	}
	return a
}

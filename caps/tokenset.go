package caps

import (
	"sort"
	"strings"
)

// Token is one concrete media type description, e.g. "video/x-raw" with
// field constraints such as width/height/format. A field with no listed
// values is unconstrained (matches anything for that field) and makes the
// Token a template rather than a fully fixated capability.
type Token struct {
	// Name is the media type name, e.g. "video/x-raw" or "video/x-h264".
	Name string

	// Fields maps a field name to the set of values it may take. A field
	// absent from Fields is unconstrained. A Token is Fixated only if every
	// field present in a reference schema has exactly one value; in practice
	// the planning core only ever asks whether len(Fields[f]) == 1 for all
	// fields actually set, so callers that never add multi-valued fields get
	// fixated tokens for free.
	Fields map[string][]string
}

// fixated reports whether t constrains every one of its fields to exactly
// one value.
func (t Token) fixated() bool {
	for _, vals := range t.Fields {
		if len(vals) != 1 {
			return false
		}
	}
	return true
}

// intersects reports whether t and o describe at least one capability in
// common: same Name, and every field present in both shares a value.
func (t Token) intersects(o Token) bool {
	if t.Name != o.Name {
		return false
	}
	for field, vals := range t.Fields {
		ovals, ok := o.Fields[field]
		if !ok {
			continue // o leaves the field unconstrained
		}
		if !anyShared(vals, ovals) {
			return false
		}
	}
	return true
}

func anyShared(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

// intersect returns the Token describing exactly the overlap of t and o, or
// (Token{}, false) if they do not intersect.
func (t Token) intersect(o Token) (Token, bool) {
	if !t.intersects(o) {
		return Token{}, false
	}
	fields := make(map[string][]string, len(t.Fields)+len(o.Fields))
	for field, vals := range t.Fields {
		fields[field] = append([]string(nil), vals...)
	}
	for field, ovals := range o.Fields {
		existing, ok := fields[field]
		if !ok {
			fields[field] = append([]string(nil), ovals...)
			continue
		}
		fields[field] = intersectStrings(existing, ovals)
	}
	return Token{Name: t.Name, Fields: fields}, true
}

func intersectStrings(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(a))
	for _, v := range a {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// key renders a deterministic, comparable signature for deduplication.
func (t Token) key() string {
	var b strings.Builder
	b.WriteString(t.Name)
	fields := make([]string, 0, len(t.Fields))
	for f := range t.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		b.WriteByte(';')
		b.WriteString(f)
		b.WriteByte('=')
		vals := append([]string(nil), t.Fields[f]...)
		sort.Strings(vals)
		b.WriteString(strings.Join(vals, ","))
	}
	return b.String()
}

// TokenSet is the reference caps.Set implementation: a union of Tokens.
// An empty TokenSet (no alternatives) represents the empty capability set.
type TokenSet struct {
	alts []Token
}

// NewTokenSet builds a TokenSet from zero or more tokens, deduplicating
// identical alternatives.
func NewTokenSet(tokens ...Token) *TokenSet {
	ts := &TokenSet{}
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		k := t.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		ts.alts = append(ts.alts, t)
	}
	return ts
}

var _ Set = (*TokenSet)(nil)

// Intersects reports whether any alternative of ts intersects any
// alternative of other.
func (ts *TokenSet) Intersects(other Set) bool {
	o := asTokenSet(other)
	if o == nil {
		return false
	}
	for _, a := range ts.alts {
		for _, b := range o.alts {
			if a.intersects(b) {
				return true
			}
		}
	}
	return false
}

// Union returns a new TokenSet holding the alternatives of both sets.
func (ts *TokenSet) Union(other Set) Set {
	o := asTokenSet(other)
	if o == nil {
		return ts.Normalize()
	}
	return NewTokenSet(append(append([]Token(nil), ts.alts...), o.alts...)...)
}

// Normalize merges alternatives that are identical after deduplication.
// TokenSet stores no other redundancy, so Normalize is just NewTokenSet
// applied to the existing alternatives.
func (ts *TokenSet) Normalize() Set {
	return NewTokenSet(ts.alts...)
}

// IntersectWithFilter returns the subset of ts compatible with filter, one
// intersected Token per compatible pair, or nil if nothing survives.
func (ts *TokenSet) IntersectWithFilter(filter Set) Set {
	f := asTokenSet(filter)
	if f == nil {
		return nil
	}
	var out []Token
	for _, a := range ts.alts {
		for _, b := range f.alts {
			if merged, ok := a.intersect(b); ok {
				out = append(out, merged)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return NewTokenSet(out...)
}

// Fixated reports whether ts has exactly one alternative and that
// alternative constrains every field it sets to a single value.
func (ts *TokenSet) Fixated() bool {
	if len(ts.alts) != 1 {
		return false
	}
	return ts.alts[0].fixated()
}

// String renders ts deterministically for logs and test failures.
func (ts *TokenSet) String() string {
	keys := make([]string, 0, len(ts.alts))
	for _, a := range ts.alts {
		keys = append(keys, a.key())
	}
	sort.Strings(keys)
	return "{" + strings.Join(keys, " | ") + "}"
}

func asTokenSet(s Set) *TokenSet {
	if s == nil {
		return nil
	}
	ts, _ := s.(*TokenSet)
	return ts
}

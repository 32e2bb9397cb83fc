package oauth

// parameters.go implements the ordered, multi-valued parameter store used by every LTI message.
//
// Names are case-sensitive and may repeat. Iteration follows insertion order, so a message
// built the same way always produces the same form body; the signature base string does its
// own sorting and does not depend on this order.

import (
	"net/url"
	"slices"
	"sort"
)

// Parameter is a single name/value pair.
type Parameter struct {
	Name  string
	Value string
}

// Parameters is an ordered multi-valued string dictionary.
//
// The zero value is empty and ready to use. A Parameters value is not safe for concurrent use.
type Parameters struct {
	entries []Parameter
}

// NewParameters returns a store holding the given pairs in order.
func NewParameters(pairs ...Parameter) *Parameters {
	p := &Parameters{entries: make([]Parameter, 0, len(pairs))}
	p.entries = append(p.entries, pairs...)
	return p
}

// ParametersFromValues copies url.Values into a store.
// url.Values has no order, so names are inserted sorted; values keep their slice order.
func ParametersFromValues(values url.Values) *Parameters {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	p := &Parameters{}
	for _, name := range names {
		for _, v := range values[name] {
			p.Add(name, v)
		}
	}
	return p
}

// Add appends a value, keeping any existing values for name.
func (p *Parameters) Add(name, value string) {
	p.entries = append(p.entries, Parameter{Name: name, Value: value})
}

// Set replaces all values for name with a single value.
// The new value takes the position of the first existing value, or is appended.
func (p *Parameters) Set(name, value string) {
	idx := slices.IndexFunc(p.entries, func(e Parameter) bool { return e.Name == name })
	if idx < 0 {
		p.Add(name, value)
		return
	}
	p.entries[idx].Value = value

	kept := p.entries[:idx+1]
	for _, e := range p.entries[idx+1:] {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	p.entries = kept
}

// Get returns the first value for name, or "" when absent.
func (p *Parameters) Get(name string) string {
	for _, e := range p.entries {
		if e.Name == name {
			return e.Value
		}
	}
	return ""
}

// Lookup returns the first value for name and whether it was present.
func (p *Parameters) Lookup(name string) (string, bool) {
	for _, e := range p.entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// Values returns every value for name in insertion order.
func (p *Parameters) Values(name string) []string {
	var values []string
	for _, e := range p.entries {
		if e.Name == name {
			values = append(values, e.Value)
		}
	}
	return values
}

// Has reports whether name has at least one value.
func (p *Parameters) Has(name string) bool {
	_, ok := p.Lookup(name)
	return ok
}

// Del removes every value for name.
func (p *Parameters) Del(name string) {
	p.entries = slices.DeleteFunc(p.entries, func(e Parameter) bool { return e.Name == name })
}

// Len is the number of pairs, counting repeated names.
func (p *Parameters) Len() int {
	return len(p.entries)
}

// All returns a copy of the pairs in insertion order.
func (p *Parameters) All() []Parameter {
	return slices.Clone(p.entries)
}

// Names returns the distinct names in order of first insertion.
func (p *Parameters) Names() []string {
	seen := make(map[string]bool, len(p.entries))
	var names []string
	for _, e := range p.entries {
		if !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	return names
}

// Clone returns an independent copy.
func (p *Parameters) Clone() *Parameters {
	return &Parameters{entries: slices.Clone(p.entries)}
}

// URLValues converts the store to url.Values for form posting.
func (p *Parameters) URLValues() url.Values {
	values := make(url.Values, len(p.entries))
	for _, e := range p.entries {
		values[e.Name] = append(values[e.Name], e.Value)
	}
	return values
}

// Encode renders the pairs as an application/x-www-form-urlencoded body in insertion order.
func (p *Parameters) Encode() string {
	var buf []byte
	for i, e := range p.entries {
		if i > 0 {
			buf = append(buf, '&')
		}
		buf = append(buf, url.QueryEscape(e.Name)...)
		buf = append(buf, '=')
		buf = append(buf, url.QueryEscape(e.Value)...)
	}
	return string(buf)
}

// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ast

// ComponentSet is a set of component names that remembers insertion order
type ComponentSet struct {
	names []string
	seen  map[string]struct{}
}

// NewComponentSet creates a ComponentSet holding names
func NewComponentSet(names ...string) *ComponentSet {
	s := &ComponentSet{seen: map[string]struct{}{}}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add records name. Adding a known name keeps its original position.
func (s *ComponentSet) Add(name string) {
	if _, ok := s.seen[name]; ok {
		return
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
}

// Has returns true if name was added
func (s *ComponentSet) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[name]
	return ok
}

// Names returns the names in order of first use
func (s *ComponentSet) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Len returns the number of names
func (s *ComponentSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

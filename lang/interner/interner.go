// Package interner implements a string interner that hands back a cheap
// comparable handle (an ID) for each distinct string. The lexer interns the
// text of every identifier it scans and turns the ID straight back into the
// shared string; nothing outside the lexer keeps or compares IDs.
//
// Grounded on rsjsonnet-lang's interner/mod.rs: intern once, compare by
// handle afterwards. Unlike the Rust original this is not reference
// counted — each Lexer owns its own table, which lives and dies with it.
package interner

import "github.com/dolthub/swiss"

// ID is a cheap, comparable handle to an interned string. The zero value is
// not a valid ID; NoID is used as a sentinel.
type ID uint32

// NoID is returned where no interned string applies.
const NoID ID = 0

// Interner deduplicates strings and hands out ID handles. The zero value is
// not usable; use New.
type Interner struct {
	byString *swiss.Map[string, ID]
	strings  []string // index 0 unused (reserved for NoID)
}

// New creates an empty Interner.
func New() *Interner {
	itn := &Interner{
		byString: swiss.NewMap[string, ID](64),
		strings:  make([]string, 1, 256),
	}
	return itn
}

// Intern returns the ID for s, allocating a new one if s was not seen
// before. Interning the same string value always returns the same ID.
func (itn *Interner) Intern(s string) ID {
	if id, ok := itn.byString.Get(s); ok {
		return id
	}
	id := ID(len(itn.strings))
	itn.strings = append(itn.strings, s)
	itn.byString.Put(s, id)
	return id
}

// Lookup returns the string value for id. It panics if id was not produced
// by this Interner (a programmer error, since IDs are not meant to cross
// Interner instances).
func (itn *Interner) Lookup(id ID) string {
	return itn.strings[id]
}

// Len returns the number of distinct strings interned so far.
func (itn *Interner) Len() int { return len(itn.strings) - 1 }

// Package symspell implements the per-worker SymSpell-style deletion index:
// a compact structure that answers "is this word in the dictionary?" and
// "which dictionary words are within edit distance 1 of this word?" using
// O(|word|) hash lookups rather than a linear scan of the dictionary.
//
// # Construction
//
// Build walks a dictionary shard's words (see internal/wordfile) and
// inserts each one. For every word that starts with a lowercase ASCII
// letter, a capitalized variant is additionally inserted as if it were its
// own dictionary word — "apple" in the source file makes both "apple" and
// "Apple" valid. Membership checks are always byte-exact; there is no case
// folding at query time, only at build time.
//
// # Deletion keys
//
// Inserting a word W of length >= 2 also records W under every string
// obtainable by deleting exactly one of its characters, skipping positions
// that would regenerate a key already produced earlier in the same
// insertion (runs of identical adjacent characters, like the double "l" in
// "hello", only contribute one deletion key). The word itself is always
// recorded under its own full string too — the zero-deletion key.
//
// # Candidate lookup
//
// A word not in the dictionary can be transformed into a dictionary word
// by exactly one insertion, deletion, or substitution. Candidates finds
// all three cases through the same deletion-key map: words reachable by
// inserting one character into the query (the query itself is a deletion
// key of those words), and words reachable by deleting one character from
// the query and then confirming the true edit distance is exactly 1
// (shared deletion keys alone only bound the distance, they don't prove
// it — two words can share a deletion key while differing by more than one
// edit).
package symspell

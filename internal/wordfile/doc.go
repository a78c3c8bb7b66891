// Package wordfile implements the partitioned reader shared by every worker
// in a distspell run: given a newline-delimited word file and a worker's
// rank within a fixed world size, it extracts exactly the byte range that
// worker owns, aligned to word boundaries, without any coordinating message
// between workers.
//
// # Partitioning scheme
//
// For a file of length T split across N workers, worker r reads an
// over-sized chunk of 2*(T/N) bytes (the last worker reads to EOF instead,
// picking up any leftover bytes) starting at (r-1)*(T/N) for r>0, or at
// offset 0 for r=0. Each worker's partition boundaries are found by
// scanning backward from its chunk's nominal (T/N) offset to the nearest
// newline, never forward: worker r's upper boundary and worker r+1's
// lower boundary both scan backward from the same absolute file offset,
// so they converge on the exact same newline regardless of how far past
// it either worker's over-read extends. Rank 0 keeps byte 0 as its lower
// boundary; the last worker's upper boundary is the last newline in the
// file, so bytes after a missing final newline are not read as a word. No worker needs to know where any other worker's range begins
// or ends, and no word is ever assigned to two workers.
//
// # Shard representation
//
// The returned Shard owns its byte buffer. Newlines inside the owned range
// are rewritten to NUL so that a word's extent can be found by scanning
// forward from its start to the next NUL, mirroring the in-memory layout
// the deletion index (internal/symspell) and the distributed coordinator
// (internal/coordinator) both expect. The same Shard type serves both
// dictionary shards and query-list shards; Words reports the (offset,
// length) of every word in file order, which for a query shard is exactly
// the "length sequence" the coordinator broadcasts each round.
package wordfile

package wordfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Span identifies one word within a Shard's owned buffer by byte offset
// and length. The word's bytes are Shard.Data()[Off : Off+Len].
type Span struct {
	Off int
	Len int
}

// Shard is a worker-local, owned byte buffer holding a contiguous,
// word-aligned partition of a newline-delimited file. Newlines within the
// owned range have been rewritten to NUL. A Shard is safe for concurrent
// read-only use; it is never mutated after ReadShard returns.
type Shard struct {
	data []byte
}

// Stats summarizes a Shard's size for logging at load time.
type Stats struct {
	Words int
	Bytes int
}

// ReadShard opens path and returns the word-aligned partition owned by
// rank out of world total workers, per the scheme documented in doc.go.
// world must be >= 1 and 0 <= rank < world.
func ReadShard(path string, rank, world int) (*Shard, error) {
	if world < 1 {
		return nil, fmt.Errorf("wordfile: invalid world size %d", world)
	}
	if rank < 0 || rank >= world {
		return nil, fmt.Errorf("wordfile: invalid rank %d for world size %d", rank, world)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wordfile: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("wordfile: stat %s: %w", path, err)
	}
	total := info.Size()
	if total == 0 {
		return &Shard{data: nil}, nil
	}

	partition := total / int64(world)
	if partition == 0 {
		partition = 1
	}

	var readStart int64
	if rank > 0 {
		readStart = int64(rank-1) * partition
	}
	readLen := 2 * partition
	if rank == world-1 {
		// Last worker reads through EOF, picking up the leftover bytes
		// that don't divide evenly into N partitions.
		readLen = total - readStart
	}
	if readStart+readLen > total {
		readLen = total - readStart
	}
	if readLen < 0 {
		readLen = 0
	}

	chunk := make([]byte, readLen)
	if readLen > 0 {
		if _, err := f.ReadAt(chunk, readStart); err != nil && err != io.EOF {
			return nil, fmt.Errorf("wordfile: read %s at %d: %w", path, readStart, err)
		}
	}

	ownedStart := 0
	if rank > 0 {
		// The chunk starts at (rank-1)*partition, so local index
		// partition-1 is the byte just before this rank's nominal
		// boundary rank*partition. Scan backward from there to the
		// nearest newline so adjacent ranks agree on the same boundary,
		// the way read_partition in the original does it.
		idx, ok := newlineAtOrBefore(chunk, int(partition)-1)
		if !ok {
			return nil, fmt.Errorf("wordfile: rank %d found no newline boundary in its chunk of %s", rank, path)
		}
		ownedStart = idx + 1
	}

	var lastNL int
	if rank == 0 {
		// Rank 0's chunk is over-read into rank 1's territory too, so its
		// own upper boundary must stop at the same nominal-partition
		// newline rank 1's start scan converges on, not at the end of
		// the whole over-read.
		idx, ok := newlineAtOrBefore(chunk, int(partition)-1)
		if !ok {
			return nil, fmt.Errorf("wordfile: rank %d found no newline boundary in its chunk of %s", rank, path)
		}
		lastNL = idx
	} else {
		lastNL = bytes.LastIndexByte(chunk, '\n')
	}
	if lastNL < 0 || lastNL < ownedStart {
		return nil, fmt.Errorf("wordfile: rank %d found no trailing newline in its chunk of %s", rank, path)
	}

	owned := make([]byte, lastNL-ownedStart)
	copy(owned, chunk[ownedStart:lastNL])
	for i, b := range owned {
		if b == '\n' {
			owned[i] = 0
		}
	}

	return &Shard{data: owned}, nil
}

// newlineAtOrBefore scans chunk backward from from (clamped to the last
// valid index) and returns the index of the nearest '\n', or ok=false if
// none exists.
func newlineAtOrBefore(chunk []byte, from int) (idx int, ok bool) {
	if from > len(chunk)-1 {
		from = len(chunk) - 1
	}
	for idx = from; idx >= 0; idx-- {
		if chunk[idx] == '\n' {
			return idx, true
		}
	}
	return 0, false
}

// Data returns the shard's owned buffer. Newlines have been replaced with
// NUL; callers must not retain or mutate the returned slice across calls
// that might reallocate it (ReadShard never does, so the slice is valid
// for the Shard's lifetime).
func (s *Shard) Data() []byte {
	return s.data
}

// Len returns the number of bytes in the shard's owned buffer, NUL word
// separators included — it is simply len(Data()).
func (s *Shard) Len() int {
	return len(s.data)
}

// Words scans the shard's buffer and returns the (offset, length) of every
// word in file order. For a query-list shard this sequence is exactly the
// "word lengths" array spec.md's data model describes.
func (s *Shard) Words() []Span {
	if len(s.data) == 0 {
		return nil
	}
	var spans []Span
	start := 0
	for i, b := range s.data {
		if b == 0 {
			spans = append(spans, Span{Off: start, Len: i - start})
			start = i + 1
		}
	}
	if start < len(s.data) {
		spans = append(spans, Span{Off: start, Len: len(s.data) - start})
	}
	return spans
}

// Word returns the string for a given span, allocating a copy out of the
// shard's owned buffer.
func (s *Shard) Word(sp Span) string {
	return string(s.data[sp.Off : sp.Off+sp.Len])
}

// Stats reports the shard's size for diagnostic logging.
func (s *Shard) Stats() Stats {
	return Stats{Words: len(s.Words()), Bytes: len(s.data)}
}

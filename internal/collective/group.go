package collective

import "context"

// Group is a fixed-size collective-communication context. Every method is a
// collective operation: all World() ranks must call the same method, with
// arguments that agree on shape (buffer lengths, counts) before any of them
// return. A Group is used by exactly one goroutine per rank for its entire
// lifetime and is not safe to share between ranks.
type Group interface {
	// Rank returns this participant's 0-based index.
	Rank() int
	// World returns the total number of participants.
	World() int

	// Broadcast sends data from root to every rank and returns the bytes
	// every rank received. On root, data is returned unchanged; on every
	// other rank, data is ignored and the root's bytes are returned.
	Broadcast(ctx context.Context, root int, data []byte) ([]byte, error)

	// AllgatherInt exchanges one int per rank and returns all World()
	// values, ordered by rank.
	AllgatherInt(ctx context.Context, v int) ([]int, error)

	// AllreduceOR performs a logical OR across corresponding positions of
	// every rank's boolean vector and returns the result to every rank.
	// Every rank must pass a vector of the same length.
	AllreduceOR(ctx context.Context, v []bool) ([]bool, error)

	// AllreduceSumInts performs an elementwise sum across every rank's int
	// vector and returns the result to every rank. Every rank must pass a
	// vector of the same length.
	AllreduceSumInts(ctx context.Context, v []int) ([]int, error)

	// ReduceSumBytes performs an elementwise byte-wise sum of every rank's
	// buffer and delivers the result to root only (nil on other ranks).
	// Correct use requires each position to be nonzero on at most one
	// rank, so the "sum" behaves as a concatenation-by-disjoint-support:
	// the coordinator relies on this to gather scattered candidate-word
	// writes without an explicit gather-to-variable-offset primitive.
	// Every rank must pass a buffer of the same length.
	ReduceSumBytes(ctx context.Context, root int, v []byte) ([]byte, error)

	// GatherInt collects one int from every rank into root's result,
	// ordered by rank. Returns nil on non-root ranks.
	GatherInt(ctx context.Context, root int, v int) ([]int, error)

	// Send delivers data to dst. Blocks until the corresponding Recv has
	// consumed it.
	Send(ctx context.Context, dst int, data []byte) error

	// Recv blocks until src calls Send and returns the delivered bytes.
	Recv(ctx context.Context, src int) ([]byte, error)
}

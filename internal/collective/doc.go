// Package collective implements the blocking collective-communication
// primitives the coordinator's round-based pipeline is built on: broadcast,
// allgather, two flavors of allreduce, a disjoint-support reduce-to-root,
// gather, and point-to-point send/recv. Every operation is a barrier — no
// rank returns from a call until every rank participating in it has.
//
// # Group
//
// Group is the interface the coordinator programs against. It knows
// nothing about how ranks actually exchange bytes; that is the job of a
// concrete implementation.
//
// LocalGroup implements Group entirely in-process: every rank is a
// goroutine, and a shared hub passes data between them. Results are not
// copied per rank: ranks receiving the same result share its backing
// array, and Send delivers the sender's own slice. It is the default
// transport and the one exercised by this package's tests.
//
// HTTPGroup implements Group across separate OS processes: rank 0 runs an
// HTTP rendezvous server and every other rank is a client of it, trading
// the zero overhead of LocalGroup for a transport that can span machines.
// It is selected by setting DISTSPELL_TRANSPORT=http (see cmd/distspell).
package collective

// Package coordinator drives one worker's side of the distributed
// spell-check job: load this rank's shards, then run a sequence of
// world-many rounds, each round processing one rank's query list against
// every rank's dictionary shard.
//
// # Round structure
//
// Round i broadcasts rank i's query-word buffer to every rank. Each rank
// checks the broadcast words against its own local index and contributes
// the result to a logical OR across the team, so a word counts as
// correctly spelled if any shard's dictionary contains it. For every word
// that comes back misspelled, every rank computes its own edit-distance-1
// candidates and the team sums how many bytes each rank needs to
// contribute, then concatenates everyone's candidate text into one buffer
// addressed to rank i. Only rank i keeps the round's output; every other
// rank's participation in round i is pure bookkeeping for the collective
// operations rank i depends on.
//
// After world rounds, each rank holds exactly one round's worth of output:
// its own. internal/assembler collects these into the final report.
package coordinator

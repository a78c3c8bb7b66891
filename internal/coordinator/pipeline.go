package coordinator

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"sort"

	"github.com/dreamware/distspell/internal/collective"
	"github.com/dreamware/distspell/internal/symspell"
	"github.com/dreamware/distspell/internal/wordfile"
)

// Result is the output a single worker contributes to the final report: the
// rendered text for the query words it originally owned, plus enough
// bookkeeping for the assembler to report a per-word candidate count
// without re-parsing Text.
type Result struct {
	MisspeltWords   int
	CandidateCounts []int
	Text            []byte
}

// RunWorker loads dictPath and queryPath as this rank's shards and runs the
// full round-based pipeline to completion, returning the Result this rank
// is responsible for. Every rank in group must call RunWorker; the call
// blocks on collective operations until every rank has.
func RunWorker(ctx context.Context, group collective.Group, dictPath, queryPath string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*symspell.InvariantError); ok {
				err = fmt.Errorf("coordinator: %w", ie)
				return
			}
			panic(r)
		}
	}()

	rank, world := group.Rank(), group.World()

	dictShard, err := wordfile.ReadShard(dictPath, rank, world)
	if err != nil {
		return nil, fmt.Errorf("coordinator: loading dictionary shard: %w", err)
	}
	index := symspell.Build(dictShard)
	log.Printf("[%d] dictionary shard: %d words, %d bytes", rank, dictShard.Stats().Words, dictShard.Stats().Bytes)

	queryShard, err := wordfile.ReadShard(queryPath, rank, world)
	if err != nil {
		return nil, fmt.Errorf("coordinator: loading query shard: %w", err)
	}
	querySpans := queryShard.Words()
	queryLengths := make([]int, len(querySpans))
	for j, sp := range querySpans {
		queryLengths[j] = sp.Len
	}

	sizes, err := group.AllgatherInt(ctx, queryShard.Len())
	if err != nil {
		return nil, err
	}
	counts, err := group.AllgatherInt(ctx, len(querySpans))
	if err != nil {
		return nil, err
	}
	_ = sizes // each round's broadcast carries its own exact length; sizes is only needed by a fixed-buffer transport

	maxListCount := maxOf(counts)

	for i := 0; i < world; i++ {
		var ownData []byte
		var ownLengths []int
		if rank == i {
			ownData = queryShard.Data()
			ownLengths = queryLengths
		}

		data, err := group.Broadcast(ctx, i, ownData)
		if err != nil {
			return nil, err
		}
		lengthsBytes, err := group.Broadcast(ctx, i, encodeInts(ownLengths))
		if err != nil {
			return nil, err
		}
		lengths := decodeInts(lengthsBytes)
		numWords := counts[i]

		localCheck := make([]bool, maxListCount)
		offsets := wordOffsetsFromLengths(lengths)
		for j := 0; j < numWords; j++ {
			w := string(data[offsets[j] : offsets[j]+lengths[j]])
			localCheck[j] = index.Check(w)
		}

		globalCheck, err := group.AllreduceOR(ctx, localCheck)
		if err != nil {
			return nil, err
		}

		candidatesByWord := make([][]string, numWords)
		localByteCounts := make([]int, maxListCount*world)
		for j := 0; j < numWords; j++ {
			if globalCheck[j] {
				continue
			}
			w := string(data[offsets[j] : offsets[j]+lengths[j]])
			cands := index.Candidates(w)
			candidatesByWord[j] = cands
			total := 0
			for _, c := range cands {
				total += len(c) + 1
			}
			localByteCounts[j*world+rank] = total
		}

		globalByteCounts, err := group.AllreduceSumInts(ctx, localByteCounts)
		if err != nil {
			return nil, err
		}

		totalWrite := 0
		wordBufOffset := make([]int, numWords)
		for j := 0; j < numWords; j++ {
			if globalCheck[j] {
				continue
			}
			wordBufOffset[j] = totalWrite
			for k := 0; k < world; k++ {
				totalWrite += globalByteCounts[j*world+k]
			}
		}

		sendBuffer := make([]byte, totalWrite)
		for j := 0; j < numWords; j++ {
			if globalCheck[j] {
				continue
			}
			pos := wordBufOffset[j]
			for k := 0; k < rank; k++ {
				pos += globalByteCounts[j*world+k]
			}
			if globalByteCounts[j*world+rank] == 0 {
				continue
			}
			o := pos
			for _, c := range candidatesByWord[j] {
				copy(sendBuffer[o:], c)
				o += len(c)
				sendBuffer[o] = 0
				o++
			}
		}

		recvBuffer, err := group.ReduceSumBytes(ctx, i, sendBuffer)
		if err != nil {
			return nil, err
		}

		if rank != i {
			continue
		}

		result = buildResult(data, lengths, offsets, numWords, globalCheck, globalByteCounts, wordBufOffset, recvBuffer, world)
	}

	return result, nil
}

func buildResult(data []byte, lengths, offsets []int, numWords int, globalCheck []bool, globalByteCounts, wordBufOffset []int, recvBuffer []byte, world int) *Result {
	var text bytes.Buffer
	var candidateCounts []int
	misspeltWords := 0

	for j := 0; j < numWords; j++ {
		word := data[offsets[j] : offsets[j]+lengths[j]]
		if globalCheck[j] {
			continue
		}

		text.Write(word)
		text.WriteByte(':')

		listSize := 0
		for k := 0; k < world; k++ {
			listSize += globalByteCounts[j*world+k]
		}
		if listSize == 0 {
			text.WriteByte('\n')
			misspeltWords++
			candidateCounts = append(candidateCounts, 0)
			continue
		}

		var cands []string
		start := wordBufOffset[j]
		segStart := start
		for k := start; k < start+listSize; k++ {
			if recvBuffer[k] == 0 {
				cands = append(cands, string(recvBuffer[segStart:k]))
				segStart = k + 1
			}
		}
		sort.Strings(cands)

		text.WriteByte(' ')
		dup := 0
		last := ""
		for _, s := range cands {
			if s != last {
				text.WriteString(s)
				text.WriteByte(' ')
			} else {
				dup++
			}
			last = s
		}
		b := text.Bytes()
		b[len(b)-1] = '\n'

		misspeltWords++
		candidateCounts = append(candidateCounts, len(cands)-dup)
	}

	return &Result{MisspeltWords: misspeltWords, CandidateCounts: candidateCounts, Text: text.Bytes()}
}

func wordOffsetsFromLengths(lengths []int) []int {
	offsets := make([]int, len(lengths))
	acc := 0
	for j, l := range lengths {
		offsets[j] = acc
		acc += l + 1
	}
	return offsets
}

func maxOf(xs []int) int {
	m := 0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

// encodeInts and decodeInts let a []int ride over the byte-oriented
// Broadcast primitive: four bytes per value, little-endian.
func encodeInts(xs []int) []byte {
	buf := make([]byte, 4*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(x))
	}
	return buf
}

func decodeInts(buf []byte) []int {
	xs := make([]int, len(buf)/4)
	for i := range xs {
		xs[i] = int(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return xs
}

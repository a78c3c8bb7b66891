package assembler

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"

	"github.com/dreamware/distspell/internal/collective"
	"github.com/dreamware/distspell/internal/coordinator"
)

// OutputPath is where the final report is written, relative to the
// process's working directory.
const OutputPath = "results/word_list_misspelled.txt"

type reportLine struct {
	wordCount int
	text      string
}

// Assemble gathers result from every rank onto rank 0 and, on rank 0 only,
// writes the combined report to OutputPath. Every rank in group must call
// Assemble exactly once after its own internal/coordinator.RunWorker call
// completes.
func Assemble(ctx context.Context, group collective.Group, result *coordinator.Result) error {
	rank, world := group.Rank(), group.World()

	if rank != 0 {
		if err := group.Send(ctx, 0, result.Text); err != nil {
			return fmt.Errorf("assembler: sending text: %w", err)
		}
		if err := group.Send(ctx, 0, encodeInts(result.CandidateCounts)); err != nil {
			return fmt.Errorf("assembler: sending candidate counts: %w", err)
		}
		return nil
	}

	lines := parseLines(result.Text, result.CandidateCounts)

	for src := 1; src < world; src++ {
		text, err := group.Recv(ctx, src)
		if err != nil {
			return fmt.Errorf("assembler: receiving text from rank %d: %w", src, err)
		}
		countBytes, err := group.Recv(ctx, src)
		if err != nil {
			return fmt.Errorf("assembler: receiving candidate counts from rank %d: %w", src, err)
		}
		lines = append(lines, parseLines(text, decodeInts(countBytes))...)
	}

	slices.SortStableFunc(lines, func(a, b reportLine) int {
		return a.wordCount - b.wordCount
	})

	return writeReport(OutputPath, lines)
}

// parseLines splits text on its embedded newlines, pairing each resulting
// line (newline included) with the matching entry of counts in order.
func parseLines(text []byte, counts []int) []reportLine {
	var out []reportLine
	idx := 0
	last := 0
	for i, b := range text {
		if b != '\n' {
			continue
		}
		out = append(out, reportLine{wordCount: counts[idx], text: string(text[last : i+1])})
		idx++
		last = i + 1
	}
	return out
}

func writeReport(path string, lines []reportLine) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("assembler: creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("assembler: creating %s: %w", path, err)
	}
	defer f.Close()

	for _, l := range lines {
		if l.text == "\n" {
			continue
		}
		if _, err := f.WriteString(l.text); err != nil {
			return fmt.Errorf("assembler: writing %s: %w", path, err)
		}
	}
	return nil
}

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

// Package integration exercises the full distspell pipeline end to end:
// partitioned reading, distributed candidate generation, and report
// assembly, wired together exactly as cmd/distspell does but driven
// in-process over collective.LocalGroup so the test needs no subprocesses
// or built binaries.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/distspell/internal/assembler"
	"github.com/dreamware/distspell/internal/collective"
	"github.com/dreamware/distspell/internal/coordinator"
)

func writeWordFile(t *testing.T, words []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0o644))
	return path
}

func runPipeline(t *testing.T, world int, dictPath, queryPath string) {
	t.Helper()
	groups := collective.NewLocalGroups(world)
	results := make([]*coordinator.Result, world)
	runErrs := make([]error, world)

	var wg sync.WaitGroup
	for r := 0; r < world; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			results[r], runErrs[r] = coordinator.RunWorker(context.Background(), groups[r], dictPath, queryPath)
		}(r)
	}
	wg.Wait()
	for r, err := range runErrs {
		require.NoError(t, err, "RunWorker rank %d", r)
	}

	asmErrs := make([]error, world)
	var awg sync.WaitGroup
	for r := 0; r < world; r++ {
		awg.Add(1)
		go func(r int) {
			defer awg.Done()
			asmErrs[r] = assembler.Assemble(context.Background(), groups[r], results[r])
		}(r)
	}
	awg.Wait()
	for r, err := range asmErrs {
		require.NoError(t, err, "Assemble rank %d", r)
	}
}

func TestPipelineEndToEndSingleWorker(t *testing.T) {
	workDir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workDir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	dict := writeWordFile(t, []string{"apple", "banana", "cherry", "date"})
	query := writeWordFile(t, []string{"aple", "banana", "chery", "xyzzy"})

	runPipeline(t, 1, dict, query)

	data, err := os.ReadFile(assembler.OutputPath)
	require.NoError(t, err)
	report := string(data)

	assert.Contains(t, report, "aple: apple\n")
	assert.Contains(t, report, "chery: cherry\n")
	assert.Contains(t, report, "xyzzy:\n")
	assert.NotContains(t, report, "banana")
}

func TestPipelineEndToEndMultipleWorkers(t *testing.T) {
	workDir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workDir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	var dictWords, queryWords []string
	for i := 0; i < 40; i++ {
		dictWords = append(dictWords, filler(i))
	}
	dictWords = append(dictWords, "apple", "able")
	for i := 0; i < 40; i++ {
		queryWords = append(queryWords, filler(i))
	}
	queryWords = append(queryWords, "aple")

	dict := writeWordFile(t, dictWords)
	query := writeWordFile(t, queryWords)

	runPipeline(t, 3, dict, query)

	data, err := os.ReadFile(assembler.OutputPath)
	require.NoError(t, err)
	report := string(data)

	assert.Contains(t, report, "aple:")
	assert.Contains(t, report, "apple")
	assert.Contains(t, report, "able")
	for i := 0; i < 40; i++ {
		assert.NotContains(t, report, filler(i)+":")
	}
}

func filler(i int) string {
	return "filler" + strings.Repeat("x", i%5+1) + string(rune('a'+i%26))
}

// Command distspell runs the distributed spell-checking pipeline: it
// partitions a dictionary and a query word list across a configurable
// number of workers, checks every query word against the full dictionary,
// and writes a sorted report of misspelled words and their candidate
// corrections.
//
// Usage:
//
//	distspell <dictionary> <word_list>
//
// The number of workers and the transport they communicate over are
// configured through environment variables rather than flags, since the
// positional arguments are fixed by the job's two required inputs:
//
//	DISTSPELL_WORLD_SIZE   number of workers (default 4)
//	DISTSPELL_TRANSPORT    "local" (default, in-process) or "http"
//	DISTSPELL_HTTP_ADDR    rank 0's listen address for the http transport
//	                       (default "127.0.0.1:7070")
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dreamware/distspell/internal/assembler"
	"github.com/dreamware/distspell/internal/collective"
	"github.com/dreamware/distspell/internal/coordinator"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dictionary> <word_list>\n", os.Args[0])
		os.Exit(1)
	}
	dictPath, queryPath := os.Args[1], os.Args[2]

	world := envInt("DISTSPELL_WORLD_SIZE", 4)

	groups, closeGroups, err := buildGroups(world, envString("DISTSPELL_TRANSPORT", "local"))
	if err != nil {
		log.Fatalf("distspell: %v", err)
	}
	defer closeGroups()

	start := time.Now()

	results := runWorkers(groups, dictPath, queryPath)

	log.Printf("parallel processing time: %s", time.Since(start))

	assembleResults(groups, results)

	log.Printf("total time: %s", time.Since(start))
}

func runWorkers(groups []collective.Group, dictPath, queryPath string) []*coordinator.Result {
	world := len(groups)
	results := make([]*coordinator.Result, world)

	var g errgroup.Group
	for r := 0; r < world; r++ {
		r := r
		g.Go(func() error {
			var err error
			results[r], err = coordinator.RunWorker(context.Background(), groups[r], dictPath, queryPath)
			if err != nil {
				return fmt.Errorf("rank %d: %w", r, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("distspell: %v", err)
	}
	return results
}

func assembleResults(groups []collective.Group, results []*coordinator.Result) {
	world := len(groups)

	var g errgroup.Group
	for r := 0; r < world; r++ {
		r := r
		g.Go(func() error {
			if err := assembler.Assemble(context.Background(), groups[r], results[r]); err != nil {
				return fmt.Errorf("assembling rank %d: %w", r, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("distspell: %v", err)
	}
}

// buildGroups constructs world Groups over the requested transport. The
// http transport runs every rank as a goroutine in this same process but
// routes every collective operation over real loopback HTTP connections,
// exercising the wire protocol a genuine multi-host deployment would use
// without requiring this command to manage subprocesses or remote hosts.
func buildGroups(world int, transport string) ([]collective.Group, func(), error) {
	switch transport {
	case "local":
		return collective.NewLocalGroups(world), func() {}, nil
	case "http":
		addr := envString("DISTSPELL_HTTP_ADDR", "127.0.0.1:7070")
		root, err := collective.NewHTTPServerGroup(world, addr)
		if err != nil {
			return nil, nil, fmt.Errorf("starting http transport: %w", err)
		}
		groups := make([]collective.Group, world)
		groups[0] = root
		for r := 1; r < world; r++ {
			groups[r] = collective.NewHTTPClientGroup(r, world, "http://"+addr)
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := root.Close(ctx); err != nil {
				log.Printf("distspell: closing http transport: %v", err)
			}
		}
		return groups, closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown DISTSPELL_TRANSPORT %q (want \"local\" or \"http\")", transport)
	}
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Fatalf("distspell: invalid %s=%q", key, v)
	}
	return n
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

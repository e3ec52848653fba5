//go:build test

package mem

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/model"
	"github.com/bastiangx/typeahead/pkg/predict"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

const memDoc model.DocumentID = "mem-test"

var testPrefixes = []string{
	"t", "th", "the", "ther", "there",
	"w", "wo", "wor", "worl", "world",
	"p", "pr", "pro", "prog", "program",
	"c", "co", "com", "comp", "computer",
	"d", "de", "dev", "devel", "development",
}

var corpusWords = []string{
	"the", "there", "these", "world", "word", "work", "working",
	"program", "programming", "programmer", "progress", "project",
	"computer", "computing", "compile", "complete", "component",
	"development", "developer", "device", "design", "detail",
	"function", "feature", "frequency", "buffer", "session",
}

// buildCorpus synthesizes enough repetitive editing-session text to give
// the model a realistic vocabulary with uneven frequencies.
func buildCorpus() string {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		for j, w := range corpusWords {
			if i%(j+1) == 0 {
				b.WriteString(w)
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func newTestEngine(t *testing.T) *predict.Engine {
	t.Helper()
	m := model.New()
	m.Update(memDoc, buildCorpus(), 1)
	return predict.NewEngine(m, config.DefaultConfig())
}

func TestMemoryLeakBasic(t *testing.T) {
	iterations := []int{100, 500, 1000, 2500, 5000}

	for _, iterCount := range iterations {
		t.Run(fmt.Sprintf("iterations_%d", iterCount), func(t *testing.T) {
			runBasicMemoryTest(t, iterCount, testPrefixes)
		})
	}
}

func TestMemoryLeakConcurrentQueries(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 1000},
		{workers: 2, iterationsPerWorker: 500},
		{workers: 4, iterationsPerWorker: 250},
		{workers: 8, iterationsPerWorker: 125},
	}

	for _, config := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", config.workers, config.iterationsPerWorker), func(t *testing.T) {
			runConcurrentMemoryTest(t, config.workers, config.iterationsPerWorker)
		})
	}
}

func TestMemoryStabilityRebuildCycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long-running memory stability test in short mode")
	}

	runRebuildCycleTest(t, 50, 200)
}

func runBasicMemoryTest(t *testing.T, iterations int, prefixes []string) {
	engine := newTestEngine(t)
	cycler := predict.NewCycler(engine)

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	for i := 0; i < iterations; i++ {
		for _, prefix := range prefixes {
			session := cycler.Query(memDoc, prefix, "the")
			if session != nil {
				cycler.Next()
				cycler.Prev()
			}
		}
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	memDelta := int64(final.Alloc - baseline.Alloc)
	goroutineDelta := finalGoroutines - baselineGoroutines
	totalOps := iterations * len(prefixes)
	memPerOp := float64(memDelta) / float64(totalOps)

	t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		iterations, totalOps, memDelta, memPerOp, goroutineDelta)

	if memPerOp > 1000 {
		t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
	}

	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}

func runConcurrentMemoryTest(t *testing.T, workers, iterationsPerWorker int) {
	engine := newTestEngine(t)

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	var wg sync.WaitGroup
	totalOps := workers * iterationsPerWorker * len(testPrefixes)

	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for iter := 0; iter < iterationsPerWorker; iter++ {
				for _, prefix := range testPrefixes {
					candidates := engine.Candidates(memDoc, prefix, "the", 10)
					_ = candidates
				}
			}
		}()
	}

	wg.Wait()

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	memDelta := int64(final.Alloc - baseline.Alloc)
	goroutineDelta := finalGoroutines - baselineGoroutines
	memPerOp := float64(memDelta) / float64(totalOps)

	t.Logf("workers=%d iter_per_worker=%d total_ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		workers, iterationsPerWorker, totalOps, memDelta, memPerOp, goroutineDelta)

	if memPerOp > 1000 {
		t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
	}

	if goroutineDelta > 3 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}

// runRebuildCycleTest interleaves full model rebuilds with query bursts the
// way an editor session does, and watches for monotonic growth.
func runRebuildCycleTest(t *testing.T, cycles, opsPerCycle int) {
	m := model.New()
	engine := predict.NewEngine(m, config.DefaultConfig())
	corpus := buildCorpus()

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	totalOps := 0
	maxMemDelta := int64(0)

	for cycle := 0; cycle < cycles; cycle++ {
		m.Update(memDoc, corpus, int64(cycle+1))

		for op := 0; op < opsPerCycle; op++ {
			prefix := testPrefixes[op%len(testPrefixes)]
			candidates := engine.Candidates(memDoc, prefix, "the", 10)
			_ = candidates
			totalOps++
		}

		if cycle%10 == 0 {
			var ms runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&ms)

			memDelta := int64(ms.Alloc - baseline.Alloc)
			goroutineDelta := runtime.NumGoroutine() - baselineGoroutines
			memPerOp := float64(memDelta) / float64(totalOps)

			if memDelta > maxMemDelta {
				maxMemDelta = memDelta
			}

			t.Logf("cycle=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
				cycle, totalOps, memDelta, memPerOp, goroutineDelta)
		}

		if cycle%20 == 0 && cycle > 0 {
			m.Forget(memDoc)
		}

		time.Sleep(5 * time.Millisecond)
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	finalMemDelta := int64(final.Alloc - baseline.Alloc)
	finalGoroutineDelta := finalGoroutines - baselineGoroutines
	finalMemPerOp := float64(finalMemDelta) / float64(totalOps)

	t.Logf("final_summary: cycles=%d total_ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d max_mem_delta=%d",
		cycles, totalOps, finalMemDelta, finalMemPerOp, finalGoroutineDelta, maxMemDelta)

	if finalGoroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", finalGoroutineDelta)
	}

	if maxMemDelta > 50*1024*1024 {
		t.Errorf("excessive peak memory usage: %d bytes", maxMemDelta)
	}
}

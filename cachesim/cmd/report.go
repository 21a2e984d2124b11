package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/rvcosim/mem/acceptancetests/memaccessagent"
	"github.com/sarchlab/rvcosim/mem/cache/writeback"
	"github.com/sarchlab/rvcosim/mem/idealmem"
)

type latencyEntry struct {
	Requests    uint64
	AverageTime float64
	MaxTime     float64
}

type stepEntry struct {
	Phase    string
	Count    uint64
	Requests uint64
}

func (s *simulation) report(w io.Writer) {
	cacheStats := s.cache.Stats()
	memStats := s.memory.State.Stats
	agentStats := s.agent.Stats

	fmt.Fprintf(w, "cache: %+v\n", cacheStats)

	accesses := cacheStats.Hits + cacheStats.Misses
	if accesses > 0 {
		fmt.Fprintf(w, "hit rate: %.4f\n",
			float64(cacheStats.Hits)/float64(accesses))
	}

	fmt.Fprintf(w, "memory: %+v\n", memStats)
	fmt.Fprintf(w, "agent: %+v\n", agentStats)
	fmt.Fprintf(w, "mismatches: %d\n", len(s.agent.Mismatches))

	latency := latencyEntry{
		Requests:    s.latency.TaskCount(),
		AverageTime: float64(s.latency.AverageTime()),
		MaxTime:     float64(s.latency.MaxTime()),
	}
	fmt.Fprintf(w, "latency: avg %.3e s, max %.3e s over %d requests\n",
		latency.AverageTime, latency.MaxTime, latency.Requests)

	steps := make([]stepEntry, 0, len(s.steps.GetStepNames()))
	for _, name := range s.steps.GetStepNames() {
		steps = append(steps, stepEntry{
			Phase:    name,
			Count:    s.steps.GetStepCount(name),
			Requests: s.steps.GetTaskCount(name),
		})
		fmt.Fprintf(w, "phase %s: entered %d times by %d requests\n",
			name, s.steps.GetStepCount(name), s.steps.GetTaskCount(name))
	}

	if s.record != nil {
		s.recordStats(cacheStats, memStats, agentStats, latency, steps)
	}
}

func (s *simulation) recordStats(
	cacheStats writeback.Stats,
	memStats idealmem.Stats,
	agentStats memaccessagent.Stats,
	latency latencyEntry,
	steps []stepEntry,
) {
	s.record.CreateTable("cache_stats", cacheStats)
	s.record.InsertData("cache_stats", cacheStats)

	s.record.CreateTable("memory_stats", memStats)
	s.record.InsertData("memory_stats", memStats)

	s.record.CreateTable("agent_stats", agentStats)
	s.record.InsertData("agent_stats", agentStats)

	s.record.CreateTable("request_latency", latency)
	s.record.InsertData("request_latency", latency)

	s.record.CreateTable("phase_steps", stepEntry{})
	for _, e := range steps {
		s.record.InsertData("phase_steps", e)
	}

	s.record.Flush()
}

func (s *simulation) check() error {
	if !s.agent.Done() {
		return fmt.Errorf("workload stopped before all the ops finished")
	}

	if n := len(s.agent.Mismatches); n > 0 {
		return fmt.Errorf("%w: %d reads returned wrong data", ErrMismatch, n)
	}

	return nil
}

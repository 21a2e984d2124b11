package tracing

import (
	"sync"

	"github.com/sarchlab/rvcosim/sim"
)

// LatencyTracer collects the latency of the tasks accepted by a filter. If the
// execution of two tasks overlaps, their times are simply added together.
type LatencyTracer struct {
	timeTeller    sim.TimeTeller
	filter        TaskFilter
	lock          sync.Mutex
	inflightTasks map[string]Task
	totalTime     sim.VTimeInSec
	maxTime       sim.VTimeInSec
	taskCount     uint64
}

// NewLatencyTracer creates a new LatencyTracer
func NewLatencyTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *LatencyTracer {
	t := &LatencyTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]Task),
	}

	return t
}

// TotalTime returns the total time has been spent on the tasks.
func (t *LatencyTracer) TotalTime() sim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.totalTime
}

// AverageTime returns the average time of the completed tasks.
func (t *LatencyTracer) AverageTime() sim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.taskCount == 0 {
		return 0
	}

	return t.totalTime / sim.VTimeInSec(t.taskCount)
}

// MaxTime returns the latency of the slowest completed task.
func (t *LatencyTracer) MaxTime() sim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.maxTime
}

// TaskCount returns the number of completed tasks.
func (t *LatencyTracer) TaskCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.taskCount
}

// InflightCount returns the number of tasks started but not yet ended.
func (t *LatencyTracer) InflightCount() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return len(t.inflightTasks)
}

// StartTask records the task start time
func (t *LatencyTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	if !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()
}

// StepTask does nothing
func (t *LatencyTracer) StepTask(_ Task) {
	// Do nothing
}

// EndTask records the end of the task
func (t *LatencyTracer) EndTask(task Task) {
	task.EndTime = t.timeTeller.CurrentTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	originalTask, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	taskTime := task.EndTime - originalTask.StartTime
	t.totalTime += taskTime
	t.maxTime = max(t.maxTime, taskTime)
	t.taskCount++

	delete(t.inflightTasks, task.ID)
}

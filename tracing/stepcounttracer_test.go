package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StepCountTracer", func() {
	var t *StepCountTracer

	step := func(id, what string) Task {
		return Task{ID: id, Steps: []TaskStep{{What: what}}}
	}

	BeforeEach(func() {
		t = NewStepCountTracer(func(Task) bool { return true })
	})

	It("should count steps and tasks separately", func() {
		t.StartTask(Task{ID: "1"})
		t.StartTask(Task{ID: "2"})

		t.StepTask(step("1", "WriteBack"))
		t.StepTask(step("1", "WaitGrant"))
		t.StepTask(step("1", "WriteBack"))
		t.StepTask(step("2", "WriteBack"))

		Expect(t.GetStepNames()).To(Equal([]string{"WriteBack", "WaitGrant"}))
		Expect(t.GetStepCount("WriteBack")).To(Equal(uint64(3)))
		Expect(t.GetTaskCount("WriteBack")).To(Equal(uint64(2)))
		Expect(t.GetTaskCount("WaitGrant")).To(Equal(uint64(1)))
	})

	It("should ignore steps of unknown tasks", func() {
		t.StepTask(step("9", "Fill"))

		Expect(t.GetStepNames()).To(BeEmpty())
	})

	It("should forget ended tasks", func() {
		t.StartTask(Task{ID: "1"})
		t.EndTask(Task{ID: "1"})
		t.StepTask(step("1", "Fill"))

		Expect(t.GetStepCount("Fill")).To(BeZero())
	})
})

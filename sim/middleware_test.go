package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stageFunc func() bool

func (f stageFunc) Tick() bool {
	return f()
}

var _ = Describe("MiddlewareHolder", func() {
	It("should run every middleware in order", func() {
		var (
			holder MiddlewareHolder
			order  []int
		)

		holder.AddMiddleware(stageFunc(func() bool {
			order = append(order, 1)
			return true
		}))
		holder.AddMiddleware(stageFunc(func() bool {
			order = append(order, 2)
			return false
		}))

		Expect(holder.Tick()).To(BeTrue())
		Expect(order).To(Equal([]int{1, 2}))
		Expect(holder.Middlewares()).To(HaveLen(2))
	})

	It("should report no progress when nothing moves", func() {
		var holder MiddlewareHolder

		holder.AddMiddleware(stageFunc(func() bool { return false }))

		Expect(holder.Tick()).To(BeFalse())
	})
})

package toolsched_test

import (
	"sync/atomic"
	"time"

	"github.com/tessera-io/tessera/pkg/protocol"
	"github.com/tessera-io/tessera/pkg/toolsched"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tracker", func() {
	Describe("with animation disabled", func() {
		It("should signal once when every tool group has displayed", func() {
			var fired int32
			tracker := toolsched.NewTracker(toolsched.DefaultOptions(false), func() {
				atomic.AddInt32(&fired, 1)
			})

			tracker.Sync([]protocol.Group{finishedGroup(1), startedGroup(2)})
			Expect(tracker.AllDisplayed()).To(BeFalse())
			Expect(atomic.LoadInt32(&fired)).To(Equal(int32(0)))

			tracker.Sync([]protocol.Group{finishedGroup(1), finishedGroup(2)})
			Expect(tracker.AllDisplayed()).To(BeTrue())
			Expect(atomic.LoadInt32(&fired)).To(Equal(int32(1)))

			// re-syncing must not double-fire
			tracker.Sync([]protocol.Group{finishedGroup(1), finishedGroup(2)})
			Expect(atomic.LoadInt32(&fired)).To(Equal(int32(1)))
		})

		It("should signal again for a tool group registered after a fire", func() {
			var fired int32
			tracker := toolsched.NewTracker(toolsched.DefaultOptions(false), func() {
				atomic.AddInt32(&fired, 1)
			})

			tracker.Sync([]protocol.Group{finishedGroup(1)})
			Expect(atomic.LoadInt32(&fired)).To(Equal(int32(1)))

			// a stray tool call interleaved into the answer shows up late
			tracker.Sync([]protocol.Group{finishedGroup(1), startedGroup(3)})
			Expect(tracker.AllDisplayed()).To(BeFalse())
			Expect(atomic.LoadInt32(&fired)).To(Equal(int32(1)))

			tracker.Sync([]protocol.Group{finishedGroup(1), finishedGroup(3)})
			Expect(tracker.AllDisplayed()).To(BeTrue())
			Expect(atomic.LoadInt32(&fired)).To(Equal(int32(2)))
		})

		It("should not signal for a message without tool groups", func() {
			var fired int32
			tracker := toolsched.NewTracker(toolsched.DefaultOptions(false), func() {
				atomic.AddInt32(&fired, 1)
			})

			tracker.Sync(nil)
			Expect(tracker.AllDisplayed()).To(BeTrue())
			Expect(atomic.LoadInt32(&fired)).To(Equal(int32(0)))
		})

		It("should expose per-group statuses", func() {
			tracker := toolsched.NewTracker(toolsched.DefaultOptions(false), nil)
			tracker.Sync([]protocol.Group{startedGroup(1), finishedGroup(2)})

			statuses := tracker.Statuses()
			Expect(statuses).To(HaveKeyWithValue(1, "searching"))
			Expect(statuses).To(HaveKeyWithValue(2, ""))
			Expect(tracker.Status(1)).To(Equal("searching"))
			Expect(tracker.Status(99)).To(Equal(""))
		})
	})

	Describe("with animation enabled", func() {
		It("should hold the aggregate signal until the timed stages pass", func() {
			var fired int32
			tracker := toolsched.NewTracker(animatedOptions(), func() {
				atomic.AddInt32(&fired, 1)
			})

			tracker.Sync([]protocol.Group{finishedGroup(1)})
			Expect(atomic.LoadInt32(&fired)).To(Equal(int32(0)))

			Eventually(func() int32 { return atomic.LoadInt32(&fired) },
				300*time.Millisecond, 5*time.Millisecond).Should(Equal(int32(1)))
			Expect(tracker.AllDisplayed()).To(BeTrue())
		})

		It("should cancel all pending timers on Stop", func() {
			var fired int32
			tracker := toolsched.NewTracker(animatedOptions(), func() {
				atomic.AddInt32(&fired, 1)
			})
			tracker.Sync([]protocol.Group{finishedGroup(1), finishedGroup(2)})
			tracker.Stop()

			Consistently(func() int32 { return atomic.LoadInt32(&fired) },
				200*time.Millisecond, 10*time.Millisecond).Should(Equal(int32(0)))
		})

		It("should ignore Sync after Stop", func() {
			tracker := toolsched.NewTracker(animatedOptions(), nil)
			tracker.Stop()
			tracker.Sync([]protocol.Group{finishedGroup(1)})

			Expect(tracker.Statuses()).To(BeEmpty())
		})
	})
})

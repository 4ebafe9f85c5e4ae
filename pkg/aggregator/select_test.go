package aggregator_test

import (
	"github.com/tessera-io/tessera/pkg/aggregator"
	"github.com/tessera-io/tessera/pkg/protocol"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Selection", func() {
	toolGroup := func(ind int) protocol.Group {
		return protocol.Group{Ind: ind, Packets: []protocol.Packet{
			{Ind: ind, Obj: protocol.PacketObj{Type: protocol.SearchToolStart}},
		}}
	}
	displayGroup := func(ind int) protocol.Group {
		return protocol.Group{Ind: ind, Packets: []protocol.Packet{
			{Ind: ind, Obj: protocol.PacketObj{Type: protocol.MessageStart}},
		}}
	}

	Describe("ToolGroups", func() {
		It("should pick only tool-classified groups", func() {
			groups := []protocol.Group{toolGroup(0), displayGroup(1), toolGroup(2)}

			tools := aggregator.ToolGroups(groups)
			Expect(tools).To(HaveLen(2))
			Expect(tools[0].Ind).To(Equal(0))
			Expect(tools[1].Ind).To(Equal(2))
		})
	})

	Describe("DisplayGroups", func() {
		It("should hide display content while tools run and no answer is coming", func() {
			groups := []protocol.Group{toolGroup(0), displayGroup(1)}

			Expect(aggregator.DisplayGroups(groups, false)).To(BeEmpty())
		})

		It("should show display content once the final answer is coming", func() {
			groups := []protocol.Group{toolGroup(0), displayGroup(1)}

			display := aggregator.DisplayGroups(groups, true)
			Expect(display).To(HaveLen(1))
			Expect(display[0].Ind).To(Equal(1))
		})

		It("should show display content when there are no tool groups", func() {
			groups := []protocol.Group{displayGroup(0)}

			display := aggregator.DisplayGroups(groups, false)
			Expect(display).To(HaveLen(1))
		})
	})

	Describe("CurrentAnswerGroup", func() {
		It("should return the last display group in ind order", func() {
			groups := []protocol.Group{displayGroup(0), toolGroup(1), displayGroup(2)}

			current, ok := aggregator.CurrentAnswerGroup(groups, true)
			Expect(ok).To(BeTrue())
			Expect(current.Ind).To(Equal(2))
		})

		It("should report absence when nothing is displayable", func() {
			groups := []protocol.Group{toolGroup(0)}

			_, ok := aggregator.CurrentAnswerGroup(groups, false)
			Expect(ok).To(BeFalse())
		})
	})
})

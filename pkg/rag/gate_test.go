package rag_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openkisan/kisanq/pkg/docstore"
	"github.com/openkisan/kisanq/pkg/rag"
)

func passage(id string, score float32) rag.Passage {
	return rag.Passage{
		Chunk: docstore.Chunk{ID: id, Text: "text " + id},
		Score: score,
	}
}

var _ = Describe("Gate", func() {
	var gate rag.Gate

	BeforeEach(func() {
		gate = rag.NewGate(0.5, 3)
	})

	It("routes to fallback when retrieval returned nothing", func() {
		decision := gate.Decide(nil)
		Expect(decision.UseLocal).To(BeFalse())
		Expect(decision.Passages).To(BeEmpty())
		Expect(decision.BestScore).To(BeZero())
	})

	It("routes to fallback when every candidate is below threshold", func() {
		decision := gate.Decide([]rag.Passage{
			passage("a", 0.4),
			passage("b", 0.3),
		})
		Expect(decision.UseLocal).To(BeFalse())
		Expect(decision.Passages).To(BeEmpty())
		Expect(decision.BestScore).To(Equal(float32(0.4)))
	})

	It("uses the local path when candidates clear the threshold", func() {
		decision := gate.Decide([]rag.Passage{
			passage("a", 0.9),
			passage("b", 0.7),
		})
		Expect(decision.UseLocal).To(BeTrue())
		Expect(decision.Passages).To(HaveLen(2))
		Expect(decision.BestScore).To(Equal(float32(0.9)))
	})

	It("includes a candidate exactly at the threshold", func() {
		decision := gate.Decide([]rag.Passage{passage("a", 0.5)})
		Expect(decision.UseLocal).To(BeTrue())
		Expect(decision.Passages).To(HaveLen(1))
	})

	It("never passes more than TopK passages", func() {
		decision := gate.Decide([]rag.Passage{
			passage("a", 0.9),
			passage("b", 0.8),
			passage("c", 0.7),
			passage("d", 0.6),
		})
		Expect(decision.Passages).To(HaveLen(3))
		Expect(decision.Passages[0].Chunk.ID).To(Equal("a"))
		Expect(decision.Passages[2].Chunk.ID).To(Equal("c"))
	})

	It("stops at the first candidate below threshold", func() {
		// Candidates arrive sorted, so relevance is a prefix.
		decision := gate.Decide([]rag.Passage{
			passage("a", 0.8),
			passage("b", 0.2),
			passage("c", 0.1),
		})
		Expect(decision.Passages).To(HaveLen(1))
		Expect(decision.Passages[0].Chunk.ID).To(Equal("a"))
	})

	It("is deterministic for the same candidates", func() {
		candidates := []rag.Passage{
			passage("a", 0.9),
			passage("b", 0.4),
		}
		first := gate.Decide(candidates)
		second := gate.Decide(candidates)
		Expect(second).To(Equal(first))
	})

	Describe("NewGate", func() {
		It("substitutes defaults for zero values", func() {
			gate := rag.NewGate(0, 0)
			Expect(gate.Threshold).To(Equal(rag.DefaultThreshold))
			Expect(gate.TopK).To(Equal(rag.DefaultTopK))
		})
	})
})

var _ = Describe("Grade", func() {
	It("bands scores into High, Medium, and Low", func() {
		Expect(rag.Grade(0.95)).To(Equal(rag.QualityHigh))
		Expect(rag.Grade(0.60)).To(Equal(rag.QualityHigh))
		Expect(rag.Grade(0.59)).To(Equal(rag.QualityMedium))
		Expect(rag.Grade(0.45)).To(Equal(rag.QualityMedium))
		Expect(rag.Grade(0.44)).To(Equal(rag.QualityLow))
		Expect(rag.Grade(0)).To(Equal(rag.QualityLow))
	})
})

package llm_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openkisan/kisanq/pkg/llm"
)

var _ = Describe("BuildPrompt", func() {
	It("places passages between the instruction and the question", func() {
		prompt := llm.BuildPrompt("when to sow wheat?", []string{
			"Query: sowing time for wheat\nAnswer: sow in the first fortnight of November",
		})

		Expect(prompt).To(Equal(
			"Answer the user's question using the following agricultural advice:\n\n" +
				"Query: sowing time for wheat\nAnswer: sow in the first fortnight of November" +
				"\n\nQuestion: when to sow wheat?"))
	})

	It("separates multiple passages with blank lines", func() {
		prompt := llm.BuildPrompt("q", []string{"first", "second", "third"})

		Expect(prompt).To(ContainSubstring("first\n\nsecond\n\nthird"))
	})

	It("preserves passage order", func() {
		prompt := llm.BuildPrompt("q", []string{"alpha", "beta"})

		Expect(strings.Index(prompt, "alpha")).To(BeNumerically("<", strings.Index(prompt, "beta")))
	})
})

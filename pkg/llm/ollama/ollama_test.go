package ollama_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openkisan/kisanq/pkg/llm"
	"github.com/openkisan/kisanq/pkg/llm/ollama"
)

var _ = Describe("Generator", func() {
	var (
		server    *httptest.Server
		generator *ollama.Generator
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
		if generator != nil {
			Expect(generator.Close()).To(Succeed())
		}
	})

	newGenerator := func(handler http.HandlerFunc) *ollama.Generator {
		server = httptest.NewServer(handler)
		g, err := ollama.NewGenerator(ollama.GeneratorConfig{
			BaseURL: server.URL,
			Model:   "test-model",
		})
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	Describe("Generate", func() {
		It("returns the completion from a chat response", func() {
			generator = newGenerator(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal("/api/chat"))

				var req map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req["model"]).To(Equal("test-model"))
				Expect(req["stream"]).To(BeFalse())

				json.NewEncoder(w).Encode(map[string]any{
					"model": "test-model",
					"message": map[string]any{
						"role":    "assistant",
						"content": "Apply neem oil in the early morning.",
					},
					"done": true,
				})
			})

			answer, err := generator.Generate(ctx, "How to control aphids on cotton?")
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("Apply neem oil in the early morning."))
		})

		It("sends the prompt as a user message", func() {
			var gotMessages []map[string]any
			generator = newGenerator(func(w http.ResponseWriter, r *http.Request) {
				var req map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				for _, m := range req["messages"].([]any) {
					gotMessages = append(gotMessages, m.(map[string]any))
				}
				json.NewEncoder(w).Encode(map[string]any{
					"message": map[string]any{"role": "assistant", "content": "ok"},
					"done":    true,
				})
			})

			_, err := generator.Generate(ctx, "test prompt")
			Expect(err).NotTo(HaveOccurred())
			Expect(gotMessages).To(HaveLen(1))
			Expect(gotMessages[0]["role"]).To(Equal("user"))
			Expect(gotMessages[0]["content"]).To(Equal("test prompt"))
		})

		It("wraps non-200 responses in ErrGeneration", func() {
			generator = newGenerator(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			})

			_, err := generator.Generate(ctx, "query")
			Expect(err).To(MatchError(llm.ErrGeneration))
			Expect(err.Error()).To(ContainSubstring("404"))
		})

		It("wraps connection failures in ErrGeneration", func() {
			server = httptest.NewServer(http.NotFoundHandler())
			g, err := ollama.NewGenerator(ollama.GeneratorConfig{
				BaseURL: server.URL,
			})
			Expect(err).NotTo(HaveOccurred())
			generator = g
			server.Close()
			server = nil

			_, err = generator.Generate(ctx, "query")
			Expect(err).To(MatchError(llm.ErrGeneration))
		})
	})

	Describe("GenerateStream", func() {
		It("streams tokens and returns the full completion", func() {
			generator = newGenerator(func(w http.ResponseWriter, r *http.Request) {
				var req map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req["stream"]).To(BeTrue())

				chunks := []string{"Sow ", "wheat ", "in November."}
				for _, c := range chunks {
					fmt.Fprintf(w, `{"message":{"role":"assistant","content":%q},"done":false}`+"\n", c)
				}
				fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
			})

			var tokens []string
			answer, err := generator.GenerateStream(ctx, "when to sow wheat?", func(token string) {
				tokens = append(tokens, token)
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("Sow wheat in November."))
			Expect(tokens).To(Equal([]string{"Sow ", "wheat ", "in November."}))
		})

		It("tolerates a nil token callback", func() {
			generator = newGenerator(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintln(w, `{"message":{"role":"assistant","content":"hello"},"done":false}`)
				fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
			})

			answer, err := generator.GenerateStream(ctx, "q", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("hello"))
		})

		It("skips malformed chunks without failing the stream", func() {
			generator = newGenerator(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintln(w, `{"message":{"role":"assistant","content":"good"},"done":false}`)
				fmt.Fprintln(w, `not json at all`)
				fmt.Fprintln(w, `{"message":{"role":"assistant","content":" answer"},"done":true}`)
			})

			answer, err := generator.GenerateStream(ctx, "q", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("good answer"))
		})
	})

	Describe("NewGenerator", func() {
		It("applies defaults for empty config", func() {
			g, err := ollama.NewGenerator(ollama.GeneratorConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(g).NotTo(BeNil())
			Expect(g.Close()).To(Succeed())
		})
	})
})

var _ = Describe("prompt trimming", func() {
	It("trims surrounding whitespace from completions", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]any{"role": "assistant", "content": "\n  padded  \n"},
				"done":    true,
			})
		}))
		defer server.Close()

		g, err := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())
		defer g.Close()

		answer, err := g.Generate(context.Background(), "q")
		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(Equal(strings.TrimSpace("\n  padded  \n")))
	})
})

package serpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openkisan/kisanq/pkg/websearch"
	"github.com/openkisan/kisanq/pkg/websearch/serpapi"
)

var _ = Describe("Searcher", func() {
	var (
		server   *httptest.Server
		searcher *serpapi.Searcher
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
		if searcher != nil {
			Expect(searcher.Close()).To(Succeed())
		}
	})

	newSearcher := func(handler http.HandlerFunc) *serpapi.Searcher {
		server = httptest.NewServer(handler)
		s, err := serpapi.NewSearcher(serpapi.SearcherConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	Describe("NewSearcher", func() {
		It("refuses to construct without an API key", func() {
			_, err := serpapi.NewSearcher(serpapi.SearcherConfig{})
			Expect(err).To(MatchError(websearch.ErrMissingAPIKey))
		})
	})

	Describe("Search", func() {
		It("sends the key and an agriculture-biased query", func() {
			var gotQuery, gotKey, gotEngine string
			searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query().Get("q")
				gotKey = r.URL.Query().Get("api_key")
				gotEngine = r.URL.Query().Get("engine")
				w.Write([]byte(`{"organic_results":[{"title":"t","snippet":"s","link":"u"}]}`))
			})

			_, err := searcher.Search(ctx, "paddy blast disease", 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotQuery).To(Equal("agricultural advice paddy blast disease farming tips"))
			Expect(gotKey).To(Equal("test-key"))
			Expect(gotEngine).To(Equal("google"))
		})

		It("puts the answer box before organic results", func() {
			searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{
					"answer_box": {"title": "Box", "answer": "direct answer", "link": "https://box"},
					"organic_results": [
						{"title": "One", "snippet": "first organic", "link": "https://one"},
						{"title": "Two", "snippet": "second organic", "link": "https://two"}
					]
				}`))
			})

			results, err := searcher.Search(ctx, "q", 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].Snippet).To(Equal("direct answer"))
			Expect(results[0].URL).To(Equal("https://box"))
			Expect(results[1].Snippet).To(Equal("first organic"))
		})

		It("falls back to the answer box snippet when answer is empty", func() {
			searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"answer_box": {"snippet": "box snippet"}}`))
			})

			results, err := searcher.Search(ctx, "q", 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Snippet).To(Equal("box snippet"))
		})

		It("caps results at maxResults", func() {
			searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{
					"organic_results": [
						{"snippet": "a"}, {"snippet": "b"}, {"snippet": "c"}, {"snippet": "d"}
					]
				}`))
			})

			results, err := searcher.Search(ctx, "q", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("skips organic results without snippets", func() {
			searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"organic_results":[{"title":"no snippet"},{"snippet":"ok"}]}`))
			})

			results, err := searcher.Search(ctx, "q", 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Snippet).To(Equal("ok"))
		})

		It("returns ErrNoResults for an empty response", func() {
			searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			})

			_, err := searcher.Search(ctx, "q", 3)
			Expect(err).To(MatchError(websearch.ErrNoResults))
		})

		It("maps 401 to ErrMissingAPIKey", func() {
			searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})

			_, err := searcher.Search(ctx, "q", 3)
			Expect(err).To(MatchError(websearch.ErrMissingAPIKey))
		})

		It("maps other failures to ErrUnavailable", func() {
			searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			})

			_, err := searcher.Search(ctx, "q", 3)
			Expect(err).To(MatchError(websearch.ErrUnavailable))
		})

		It("surfaces API-level errors", func() {
			searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"error": "Your searches have run out"}`))
			})

			_, err := searcher.Search(ctx, "q", 3)
			Expect(err).To(MatchError(websearch.ErrUnavailable))
			Expect(err.Error()).To(ContainSubstring("run out"))
		})
	})
})

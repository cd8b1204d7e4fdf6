package duckduckgo_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openkisan/kisanq/pkg/websearch"
	"github.com/openkisan/kisanq/pkg/websearch/duckduckgo"
)

var _ = Describe("Searcher", func() {
	var (
		server   *httptest.Server
		searcher *duckduckgo.Searcher
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

	newSearcher := func(handler http.HandlerFunc) *duckduckgo.Searcher {
		server = httptest.NewServer(handler)
		s, err := duckduckgo.NewSearcher(duckduckgo.SearcherConfig{
			BaseURL: server.URL,
		})
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	It("requests JSON with an agriculture-biased query", func() {
		var gotQuery, gotFormat string
		searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			gotFormat = r.URL.Query().Get("format")
			w.Write([]byte(`{"AbstractText": "abstract"}`))
		})

		_, err := searcher.Search(ctx, "drip irrigation subsidy", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(gotQuery).To(Equal("agricultural advice drip irrigation subsidy farming"))
		Expect(gotFormat).To(Equal("json"))
	})

	It("puts the abstract before related topics", func() {
		searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"Heading": "Irrigation",
				"AbstractText": "the abstract",
				"AbstractURL": "https://a",
				"RelatedTopics": [
					{"Text": "topic one", "FirstURL": "https://t1"},
					{"Text": "topic two", "FirstURL": "https://t2"}
				]
			}`))
		})

		results, err := searcher.Search(ctx, "q", 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[0].Title).To(Equal("Irrigation"))
		Expect(results[0].Snippet).To(Equal("the abstract"))
		Expect(results[1].Snippet).To(Equal("topic one"))
	})

	It("caps results at maxResults", func() {
		searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"RelatedTopics": [
					{"Text": "a"}, {"Text": "b"}, {"Text": "c"}
				]
			}`))
		})

		results, err := searcher.Search(ctx, "q", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
	})

	It("returns ErrNoResults when the API has nothing", func() {
		searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"AbstractText": "", "RelatedTopics": []}`))
		})

		_, err := searcher.Search(ctx, "q", 3)
		Expect(err).To(MatchError(websearch.ErrNoResults))
	})

	It("maps HTTP failures to ErrUnavailable", func() {
		searcher = newSearcher(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := searcher.Search(ctx, "q", 3)
		Expect(err).To(MatchError(websearch.ErrUnavailable))
	})
})

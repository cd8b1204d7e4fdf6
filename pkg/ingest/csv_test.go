package ingest_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openkisan/kisanq/pkg/docstore"
	"github.com/openkisan/kisanq/pkg/ingest"
)

const sampleCSV = `StateName,DistrictName,Crop,QueryType,QueryText,KccAns
Punjab,Ludhiana,Wheat,Plant Protection,yellow rust in wheat,spray propiconazole 25 EC
Maharashtra,Pune,Onion,Weather,weather forecast,cloudy with light rain
,,,,how to store grain,use airtight bins
Punjab,Ludhiana,Wheat,Plant Protection,,no answer recorded
Punjab,Ludhiana,Wheat,Plant Protection,aphids in mustard,
`

var _ = Describe("ParseCSV", func() {
	It("maps columns by header name", func() {
		chunks, stats, err := ingest.ParseCSV(strings.NewReader(sampleCSV))
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Rows).To(Equal(5))
		Expect(chunks).To(HaveLen(3))

		first := chunks[0]
		Expect(first.ID).NotTo(BeEmpty())
		Expect(first.Text).To(Equal("Query: yellow rust in wheat\nAnswer: spray propiconazole 25 EC"))
		Expect(first.Metadata).To(HaveKeyWithValue(docstore.MetaState, "Punjab"))
		Expect(first.Metadata).To(HaveKeyWithValue(docstore.MetaDistrict, "Ludhiana"))
		Expect(first.Metadata).To(HaveKeyWithValue(docstore.MetaCrop, "Wheat"))
		Expect(first.Metadata).To(HaveKeyWithValue(docstore.MetaCategory, "Plant Protection"))
	})

	It("skips rows with a blank query or answer", func() {
		_, stats, err := ingest.ParseCSV(strings.NewReader(sampleCSV))
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Skipped).To(Equal(2))
	})

	It("omits blank metadata fields", func() {
		chunks, _, err := ingest.ParseCSV(strings.NewReader(sampleCSV))
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks[2].Text).To(HavePrefix("Query: how to store grain"))
		Expect(chunks[2].Metadata).To(BeEmpty())
	})

	It("matches headers case-insensitively", func() {
		data := "querytext,KCCANS\nq,a\n"
		chunks, _, err := ingest.ParseCSV(strings.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(HaveLen(1))
	})

	It("assigns a unique ID to every chunk", func() {
		chunks, _, err := ingest.ParseCSV(strings.NewReader(sampleCSV))
		Expect(err).NotTo(HaveOccurred())

		seen := map[string]bool{}
		for _, chunk := range chunks {
			Expect(seen[chunk.ID]).To(BeFalse())
			seen[chunk.ID] = true
		}
	})

	It("fails without the query and answer columns", func() {
		_, _, err := ingest.ParseCSV(strings.NewReader("StateName,Crop\nPunjab,Wheat\n"))
		Expect(err).To(MatchError(ingest.ErrMissingColumns))
	})

	It("fails on an empty file", func() {
		_, _, err := ingest.ParseCSV(strings.NewReader(""))
		Expect(err).To(MatchError(ingest.ErrMissingColumns))
	})

	It("tolerates ragged rows", func() {
		data := "QueryText,KccAns,StateName\nq,a\n"
		chunks, _, err := ingest.ParseCSV(strings.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(HaveLen(1))
		Expect(chunks[0].Metadata).NotTo(HaveKey(docstore.MetaState))
	})
})

// Package ingest loads Kisan Call Center advisory records into the
// document store and builds the vector index over them.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/openkisan/kisanq/pkg/docstore"
)

// CSV column headers recognized by the parser. The KCC dataset ships
// with these names; matching is case-insensitive.
const (
	colQuery    = "querytext"
	colAnswer   = "kccans"
	colState    = "statename"
	colDistrict = "districtname"
	colCrop     = "crop"
	colCategory = "querytype"
)

// ErrMissingColumns indicates the CSV header lacks the query or answer column.
var ErrMissingColumns = errors.New("ingest: csv is missing QueryText or KccAns column")

// ParseStats summarizes a CSV parse.
type ParseStats struct {
	// Rows is the number of data rows read.
	Rows int

	// Skipped is the number of rows dropped for a blank query or answer.
	Skipped int
}

// ParseCSV reads KCC advisory records from r. Each valid row becomes one
// chunk whose text pairs the historical query with its answer, carrying
// the row's provenance as metadata. Rows with a blank query or answer
// are skipped, not fatal.
func ParseCSV(r io.Reader) ([]docstore.Chunk, ParseStats, error) {
	var stats ParseStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, ErrMissingColumns
		}
		return nil, stats, fmt.Errorf("ingest: reading csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	if _, ok := cols[colQuery]; !ok {
		return nil, stats, ErrMissingColumns
	}
	if _, ok := cols[colAnswer]; !ok {
		return nil, stats, ErrMissingColumns
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var chunks []docstore.Chunk
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("ingest: reading csv row: %w", err)
		}
		stats.Rows++

		query := field(record, colQuery)
		answer := field(record, colAnswer)
		if query == "" || answer == "" {
			stats.Skipped++
			continue
		}

		metadata := map[string]string{}
		if v := field(record, colState); v != "" {
			metadata[docstore.MetaState] = v
		}
		if v := field(record, colDistrict); v != "" {
			metadata[docstore.MetaDistrict] = v
		}
		if v := field(record, colCrop); v != "" {
			metadata[docstore.MetaCrop] = v
		}
		if v := field(record, colCategory); v != "" {
			metadata[docstore.MetaCategory] = v
		}

		chunks = append(chunks, docstore.Chunk{
			ID:       uuid.NewString(),
			Text:     fmt.Sprintf("Query: %s\nAnswer: %s", query, answer),
			Metadata: metadata,
		})
	}

	return chunks, stats, nil
}

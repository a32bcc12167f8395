package schools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// NameIndex is an in-memory full text index over school names. Document
// ids are positions in the record slice the index was built from.
type NameIndex struct {
	idx bleve.Index
}

type nameDoc struct {
	Name string `json:"name"`
	City string `json:"city"`
}

func NewNameIndex(records []School) (*NameIndex, error) {
	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = "standard"
	cityField := bleve.NewKeywordFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("name", nameField)
	doc.AddFieldMappingsAt("city", cityField)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc

	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("creating name index: %w", err)
	}
	batch := idx.NewBatch()
	for i, s := range records {
		if err := batch.Index(strconv.Itoa(i), nameDoc{Name: s.Name, City: s.City}); err != nil {
			idx.Close()
			return nil, fmt.Errorf("indexing %q: %w", s.Name, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("indexing schools: %w", err)
	}
	return &NameIndex{idx: idx}, nil
}

// Search matches every term of q against school names, each term either as
// a prefix or within edit distance 1. Results are positions ordered by
// score.
func (n *NameIndex) Search(ctx context.Context, q string, limit int) ([]int, error) {
	terms := strings.Fields(strings.ToLower(q))
	if len(terms) == 0 {
		return []int{}, nil
	}
	termQueries := make([]query.Query, 0, len(terms))
	for _, t := range terms {
		pq := bleve.NewPrefixQuery(t)
		pq.SetField("name")
		fq := bleve.NewFuzzyQuery(t)
		fq.SetField("name")
		fq.Fuzziness = 1
		termQueries = append(termQueries, bleve.NewDisjunctionQuery(pq, fq))
	}

	req := bleve.NewSearchRequest(bleve.NewConjunctionQuery(termQueries...))
	if limit > 0 {
		req.Size = limit
	}
	req.SortBy([]string{"-_score", "_id"})
	res, err := n.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching school names: %w", err)
	}
	out := make([]int, 0, len(res.Hits))
	for _, hit := range res.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		out = append(out, i)
	}
	return out, nil
}

func (n *NameIndex) Close() error {
	return n.idx.Close()
}

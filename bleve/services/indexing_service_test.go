package services

import (
	"testing"

	"github.com/blevesearch/bleve/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type productDoc struct {
	ID   string `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

func newTestService(t *testing.T) *IndexingService {
	t.Helper()
	return NewIndexingService(zap.NewNop(), t.TempDir())
}

func TestIndexAndGetDocument(t *testing.T) {
	svc := newTestService(t)

	doc := productDoc{ID: "p1", SKU: "SCAF-TOWER-6M", Name: "6m Scaffold Tower"}
	require.NoError(t, svc.IndexDocument("products", doc.ID, doc))

	fields, err := svc.GetDocument("products", "p1")
	require.NoError(t, err)

	stored, ok := fields.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "SCAF-TOWER-6M", stored["sku"])
}

func TestSKUStaysASingleToken(t *testing.T) {
	svc := newTestService(t)

	doc := productDoc{ID: "p1", SKU: "SCAF-TOWER-6M", Name: "6m Scaffold Tower"}
	require.NoError(t, svc.IndexDocument("products", doc.ID, doc))

	// The keyword analyzer keeps the hyphenated SKU whole, so an exact
	// term query on the full value must hit.
	termQuery := bleve.NewTermQuery("SCAF-TOWER-6M")
	termQuery.SetField("sku")

	result, err := svc.SearchIndex("products", termQuery, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "p1", result.Hits[0].ID)
}

func TestBulkIndexAndSearch(t *testing.T) {
	svc := newTestService(t)

	docs := map[string]interface{}{
		"p1": productDoc{ID: "p1", SKU: "SCAF-TOWER-6M", Name: "6m Scaffold Tower"},
		"p2": productDoc{ID: "p2", SKU: "EVT-TENT-100", Name: "100-Seater Marquee Tent"},
	}
	require.NoError(t, svc.BulkIndexDocuments("products", docs))

	matchQuery := bleve.NewMatchQuery("scaffold")
	matchQuery.SetField("name")

	result, err := svc.SearchIndex("products", matchQuery, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "p1", result.Hits[0].ID)
}

func TestDeleteDocument(t *testing.T) {
	svc := newTestService(t)

	doc := productDoc{ID: "p1", SKU: "SCAF-TOWER-6M", Name: "6m Scaffold Tower"}
	require.NoError(t, svc.IndexDocument("products", doc.ID, doc))
	require.NoError(t, svc.DeleteDocument("products", "p1"))

	_, err := svc.GetDocument("products", "p1")
	assert.Error(t, err)
}

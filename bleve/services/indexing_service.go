package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

// IndexingService owns the on-disk Bleve indexes for catalog and user
// search. One index per document kind, lazily opened under basePath.
type IndexingService struct {
	indexes  map[string]bleve.Index
	logger   *zap.Logger
	basePath string
}

func NewIndexingService(logger *zap.Logger, basePath string) *IndexingService {
	return &IndexingService{
		indexes:  make(map[string]bleve.Index),
		logger:   logger,
		basePath: basePath,
	}
}

// newSearchIndexMapping stores every field so hits can be rendered
// without a database round trip. Identifier fields get the keyword
// analyzer: SKUs, UUIDs and emails must stay single tokens or the
// exact-match term queries in the search repositories never hit.
func newSearchIndexMapping() *mapping.IndexMappingImpl {
	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()
	for _, field := range []string{"id", "sku", "category_id", "vendor_id", "email", "role"} {
		docMapping.AddFieldMappingsAt(field, keywordField)
	}

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func (s *IndexingService) getOrCreateIndex(indexName string) (bleve.Index, error) {
	if idx, ok := s.indexes[indexName]; ok {
		return idx, nil
	}

	fullPath := fmt.Sprintf("%s/%s.bleve", s.basePath, indexName)

	idx, err := bleve.Open(fullPath)
	if err != nil {
		idx, err = bleve.New(fullPath, newSearchIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create index %s: %w", fullPath, err)
		}
	}

	s.indexes[indexName] = idx
	return idx, nil
}

// SearchIndex runs a query and returns hits with their stored fields.
func (s *IndexingService) SearchIndex(indexName string, q query.Query, size int) (*bleve.SearchResult, error) {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return nil, err
	}

	searchRequest := bleve.NewSearchRequestOptions(q, size, 0, false)
	searchRequest.Fields = []string{"*"}

	searchResult, err := idx.Search(searchRequest)
	if err != nil {
		s.logger.Error("Search failed", zap.String("index_name", indexName), zap.Error(err))
		return nil, err
	}

	return searchResult, nil
}

func (s *IndexingService) IndexDocument(indexName, id string, document interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return err
	}

	if err := idx.Index(id, document); err != nil {
		s.logger.Error("Failed to index document", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// BulkIndexDocuments batches writes for the startup rebuild and bulk
// upload paths.
func (s *IndexingService) BulkIndexDocuments(indexName string, documents map[string]interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return err
	}

	batch := idx.NewBatch()
	for id, doc := range documents {
		if err := batch.Index(id, doc); err != nil {
			s.logger.Error("Failed to add document to batch", zap.String("id", id), zap.Error(err))
			return err
		}
	}

	if err := idx.Batch(batch); err != nil {
		s.logger.Error("Failed to execute batch", zap.String("index_name", indexName), zap.Error(err))
		return err
	}

	s.logger.Info("Bulk indexed documents",
		zap.String("index_name", indexName),
		zap.Int("count", len(documents)))
	return nil
}

func (s *IndexingService) DeleteDocument(indexName, id string) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return err
	}

	if err := idx.Delete(id); err != nil {
		s.logger.Error("Failed to delete document", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// GetDocument fetches one document's stored fields by its ID.
func (s *IndexingService) GetDocument(indexName, id string) (interface{}, error) {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		return nil, err
	}

	q := bleve.NewDocIDQuery([]string{id})
	searchRequest := bleve.NewSearchRequest(q)
	searchRequest.Size = 1
	searchRequest.Fields = []string{"*"}

	searchResult, err := idx.Search(searchRequest)
	if err != nil {
		return nil, err
	}

	if len(searchResult.Hits) == 0 {
		return nil, fmt.Errorf("document not found")
	}

	return searchResult.Hits[0].Fields, nil
}

func (s *IndexingService) deleteIndex(indexName string) error {
	idx, exists := s.indexes[indexName]
	if exists {
		if err := idx.Close(); err != nil {
			s.logger.Error("Failed to close index before deletion",
				zap.String("index_name", indexName),
				zap.Error(err))
			return fmt.Errorf("failed to close index: %w", err)
		}
		delete(s.indexes, indexName)
	}

	fullPath := fmt.Sprintf("%s/%s.bleve", s.basePath, indexName)
	if err := os.RemoveAll(fullPath); err != nil {
		s.logger.Error("Failed to delete index files",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to delete index files: %w", err)
	}

	s.logger.Info("Deleted index", zap.String("index_name", indexName))
	return nil
}

// DeleteAllIndices drops every open index plus any index directories
// left on disk from a previous run. Used before a full rebuild.
func (s *IndexingService) DeleteAllIndices() error {
	knownIndices := make([]string, 0, len(s.indexes))
	for indexName := range s.indexes {
		knownIndices = append(knownIndices, indexName)
	}

	var errorsOccurred []error
	for _, indexName := range knownIndices {
		if err := s.deleteIndex(indexName); err != nil {
			errorsOccurred = append(errorsOccurred, err)
		}
	}

	files, err := filepath.Glob(filepath.Join(s.basePath, "*.bleve"))
	if err != nil {
		s.logger.Error("Failed to scan for index files",
			zap.String("path", s.basePath),
			zap.Error(err))
		return fmt.Errorf("failed to scan index directory: %w", err)
	}

	for _, file := range files {
		indexName := strings.TrimSuffix(filepath.Base(file), ".bleve")
		if _, exists := s.indexes[indexName]; !exists {
			if err := os.RemoveAll(file); err != nil {
				errorsOccurred = append(errorsOccurred, err)
			}
		}
	}

	if len(errorsOccurred) > 0 {
		s.logger.Error("Some indices failed to delete",
			zap.Int("error_count", len(errorsOccurred)))
		return fmt.Errorf("%d errors occurred while deleting indices", len(errorsOccurred))
	}

	return nil
}

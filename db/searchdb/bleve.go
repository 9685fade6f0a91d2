package searchdb

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/meghashyamc/docsearch/logger"
)

const indexingBatchSize = 100

const (
	indexFieldID         = "id"
	indexFieldTitle      = "title"
	indexFieldPageNumber = "page_number"
	indexFieldText       = "text"
)

var quotedPhraseRegex = regexp.MustCompile(`"([^"]*)"`)

type BleveDB struct {
	logger logger.Logger
	index  bleve.Index
}

// New creates an in-memory index. Nothing is written to disk.
func New(logger logger.Logger) (*BleveDB, error) {
	index, err := bleve.NewMemOnly(createIndexMapping())
	if err != nil {
		logger.Error("could not create index", "err", err.Error())
		return nil, err
	}
	return &BleveDB{logger: logger, index: index}, nil
}

func (b *BleveDB) BuildIndex(passages []Passage) error {

	batch := b.index.NewBatch()

	for i, passage := range passages {

		err := batch.Index(passage.ID, toIndexDocument(passage))
		if err != nil {
			b.logger.Error("could not index passage", "err", err.Error(), "id", passage.ID)
			return err
		}

		// Execute batch when it reaches the batch size
		if (i+1)%indexingBatchSize == 0 {
			err = b.index.Batch(batch)
			if err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index passages", "err", err.Error())
			return err
		}
	}

	return nil
}

func toIndexDocument(passage Passage) map[string]any {
	document := map[string]any{
		indexFieldID:    passage.ID,
		indexFieldTitle: passage.Title,
		indexFieldText:  passage.Text,
	}
	if passage.PageNumber != nil {
		document[indexFieldPageNumber] = float64(*passage.PageNumber)
	}
	return document
}

func createIndexMapping() mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(indexFieldID, idFieldMapping)

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(indexFieldTitle, titleFieldMapping)

	// Text is stored as well as indexed so hits can be returned whole.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	textFieldMapping.Store = true
	textFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(indexFieldText, textFieldMapping)

	pageFieldMapping := bleve.NewNumericFieldMapping()
	docMapping.AddFieldMappingsAt(indexFieldPageNumber, pageFieldMapping)

	indexMapping.DefaultMapping = docMapping

	return indexMapping
}

func (b *BleveDB) Search(queryString string, limit int) (*Response, error) {
	start := time.Now()

	searchQuery := b.buildSearchQuery(queryString)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, limit, 0, false)
	searchRequest.Fields = []string{indexFieldTitle, indexFieldPageNumber, indexFieldText}

	searchResult, err := b.index.Search(searchRequest)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, len(searchResult.Hits))
	for i, hit := range searchResult.Hits {
		result := Result{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if title, ok := hit.Fields[indexFieldTitle].(string); ok {
			result.Title = title
		}
		if pageNumber, ok := hit.Fields[indexFieldPageNumber].(float64); ok {
			page := int(pageNumber)
			result.PageNumber = &page
		}
		if text, ok := hit.Fields[indexFieldText].(string); ok {
			result.Text = text
		}

		results[i] = result
	}

	response := &Response{
		Results:    results,
		Total:      searchResult.Total,
		MaxScore:   searchResult.MaxScore,
		SearchTime: time.Since(start).String(),
	}

	return response, nil
}

func (b *BleveDB) buildSearchQuery(queryString string) query.Query {

	const (
		boostForText         = 3.0
		boostForTitle        = 2.0
		boostForPhraseMatch  = 5.0
		boostForPartialMatch = 1.5
	)

	quoted, remaining := parseQuotedQuery(strings.ToLower(queryString))

	if len(quoted) == 0 && remaining == "" {
		return bleve.NewMatchAllQuery()
	}

	disjunctQuery := bleve.NewDisjunctionQuery()

	for _, phrase := range quoted {
		phraseQuery := bleve.NewMatchPhraseQuery(phrase)
		phraseQuery.SetField(indexFieldText)
		phraseQuery.SetBoost(boostForPhraseMatch)
		disjunctQuery.AddQuery(phraseQuery)

		titlePhraseQuery := bleve.NewMatchPhraseQuery(phrase)
		titlePhraseQuery.SetField(indexFieldTitle)
		titlePhraseQuery.SetBoost(boostForTitle)
		disjunctQuery.AddQuery(titlePhraseQuery)
	}

	if remaining == "" {
		return disjunctQuery
	}

	textQuery := bleve.NewMatchQuery(remaining)
	textQuery.SetField(indexFieldText)
	textQuery.SetBoost(boostForText)
	disjunctQuery.AddQuery(textQuery)

	titleQuery := bleve.NewMatchQuery(remaining)
	titleQuery.SetField(indexFieldTitle)
	titleQuery.SetBoost(boostForTitle)
	disjunctQuery.AddQuery(titleQuery)

	phraseQuery := bleve.NewMatchPhraseQuery(remaining)
	phraseQuery.SetField(indexFieldText)
	phraseQuery.SetBoost(boostForPhraseMatch)
	disjunctQuery.AddQuery(phraseQuery)

	if len(remaining) > 2 && !strings.Contains(remaining, " ") {
		prefixQuery := bleve.NewPrefixQuery(remaining)
		prefixQuery.SetField(indexFieldText)
		prefixQuery.SetBoost(boostForPartialMatch)
		disjunctQuery.AddQuery(prefixQuery)
	}

	return disjunctQuery
}

// parseQuotedQuery splits out "quoted phrases" and returns them with the rest of the
// query, whitespace-normalised.
func parseQuotedQuery(queryString string) ([]string, string) {
	var quoted []string
	for _, match := range quotedPhraseRegex.FindAllStringSubmatch(queryString, -1) {
		phrase := strings.Join(strings.Fields(match[1]), " ")
		if len(phrase) > 0 {
			quoted = append(quoted, phrase)
		}
	}

	remaining := quotedPhraseRegex.ReplaceAllString(queryString, " ")
	remaining = strings.ReplaceAll(remaining, `"`, " ")

	return quoted, strings.Join(strings.Fields(remaining), " ")
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}

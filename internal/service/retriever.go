package service

import (
	"context"
	"log"

	"clinic-assist-be/internal/repository/unitofwork"
	"clinic-assist-be/pkg/embedding"
	"clinic-assist-be/pkg/workflow/retrieval"

	"github.com/google/uuid"
)

// documentRetriever answers the workflow engine's retrieval contract from
// the pgvector store. It embeds the query, searches the scope's chunks and
// flattens the scored rows into rank-ordered passages. Every failure mode
// collapses to an empty result so the composer can apply its own fallback
// messaging; errors are only logged here.
type documentRetriever struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	logger            *log.Logger
}

func NewDocumentRetriever(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.Provider, logger *log.Logger) retrieval.Retriever {
	return &documentRetriever{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            logger,
	}
}

func (r *documentRetriever) Retrieve(ctx context.Context, query string, scopeKey string, k int) []retrieval.Passage {
	botId, err := uuid.Parse(scopeKey)
	if err != nil {
		r.logger.Printf("[RETRIEVER] Bad scope key %q: %v", scopeKey, err)
		return []retrieval.Passage{}
	}

	emb, err := r.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		r.logger.Printf("[RETRIEVER] Query embedding failed: %v", err)
		return []retrieval.Passage{}
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.DocumentEmbeddingRepository().SearchSimilar(ctx, emb.Values, k, botId)
	if err != nil {
		r.logger.Printf("[RETRIEVER] Similarity search failed: %v", err)
		return []retrieval.Passage{}
	}

	passages := make([]retrieval.Passage, 0, len(chunks))
	for i, c := range chunks {
		d := c.Distance
		passages = append(passages, retrieval.Passage{
			Content:  c.Embedding.Chunk,
			Source:   c.Source,
			Rank:     i + 1,
			Distance: &d,
		})
	}
	return passages
}

package contract

import (
	"context"

	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	Update(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SetStatus(ctx context.Context, id uuid.UUID, status entity.DocumentStatus) error
}

// ScoredDocumentChunk pairs a retrieved chunk with its cosine distance and
// the source document title for attribution.
type ScoredDocumentChunk struct {
	Embedding *entity.DocumentEmbedding
	Source    string
	Distance  float64
}

type DocumentEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilar runs a cosine nearest-neighbour search scoped to one
	// bot's documents, best match first.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, botId uuid.UUID) ([]*ScoredDocumentChunk, error)
}

package embedding

// Task types hint the backend about the embedding's purpose.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingResponse carries the generated vector.
type EmbeddingResponse struct {
	Values []float32
}

// Provider generates text embeddings for indexing and retrieval.
type Provider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

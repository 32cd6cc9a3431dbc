package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"clinic-assist-be/internal/dto"
	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/repository/specification"
	"clinic-assist-be/internal/repository/unitofwork"
	"clinic-assist-be/pkg/embedding"
	"clinic-assist-be/pkg/events"
	pktNats "clinic-assist-be/pkg/nats"
	"clinic-assist-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService is the background indexing worker. It chunks document
// content, embeds each chunk and swaps the document's embeddings in one
// transaction, then flips the document status.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	eventBus          *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	eventBus *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventBus:          eventBus,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIndexDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Indexing document %s", payload.DocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if doc == nil {
		log.Printf("[ERROR] Document not found: %s", payload.DocumentId)
		msg.Ack() // Document deleted? Ack.
		return
	}

	content := fmt.Sprintf("Document: %s\nSource: %s\n\n%s", doc.Title, doc.SourceName, doc.Content)

	// ChunkSize 1500 chars with 200 overlap keeps each chunk well inside
	// the embedding model's context.
	chunks := utils.SplitText(content, 1500, 200)
	log.Printf("[INFO] Document %s split into %d chunks", payload.DocumentId, len(chunks))

	var newEmbeddings []*entity.DocumentEmbedding

	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of document %s: %v", i, payload.DocumentId, err)
			cs.markFailed(ctx, doc.Id)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.DocumentEmbedding{
			Id:             uuid.New(),
			Chunk:          chunk,
			EmbeddingValue: res.Values,
			DocumentId:     doc.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.DocumentEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create embeddings: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.DocumentRepository().SetStatus(ctx, doc.Id, entity.DocumentStatusIndexed); err != nil {
		log.Printf("[ERROR] Failed to mark document indexed: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	if cs.eventBus != nil {
		event := events.NewDocumentIndexed(doc.BotId.String(), doc.Id.String(), len(newEmbeddings))
		if err := cs.eventBus.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish indexed event: %v", err)
		}
	}

	log.Printf("[SUCCESS] Document %s indexed with %d chunks", payload.DocumentId, len(newEmbeddings))
	msg.Ack()
}

func (cs *consumerService) markFailed(ctx context.Context, documentId uuid.UUID) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().SetStatus(ctx, documentId, entity.DocumentStatusFailed); err != nil {
		log.Printf("[ERROR] Failed to mark document %s failed: %v", documentId, err)
	}
}

package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"clinic-assist-be/internal/dto"
	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/repository/specification"
	"clinic-assist-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IDocumentService interface {
	CreateDocument(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	GetDocuments(ctx context.Context, userId uuid.UUID, botId uuid.UUID) ([]*dto.DocumentResponse, error)
	DeleteDocument(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error
	ReindexDocument(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error
}

// documentService manages the knowledge base. Writes enqueue an indexing
// job; the consumer worker does the chunking and embedding off the
// request path.
type documentService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, publisher IPublisherService) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:         d.Id,
		BotId:      d.BotId,
		Title:      d.Title,
		SourceName: d.SourceName,
		Status:     string(d.Status),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (s *documentService) CreateDocument(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bot, err := uow.BotRepository().FindOne(ctx,
		specification.ByID{ID: req.BotId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, fmt.Errorf("bot not found or access denied")
	}

	doc := &entity.Document{
		Id:         uuid.New(),
		BotId:      req.BotId,
		Title:      req.Title,
		Content:    req.Content,
		SourceName: req.SourceName,
		Status:     entity.DocumentStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishIndexDocument(&dto.PublishIndexDocumentMessage{DocumentId: doc.Id}); err != nil {
		log.Printf("[WARN] Failed to enqueue indexing for document %s: %v", doc.Id, err)
	}

	return toDocumentResponse(doc), nil
}

func (s *documentService) GetDocuments(ctx context.Context, userId uuid.UUID, botId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bot, err := uow.BotRepository().FindOne(ctx,
		specification.ByID{ID: botId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, fmt.Errorf("bot not found or access denied")
	}

	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByBotID{BotID: botId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		res = append(res, toDocumentResponse(d))
	}
	return res, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := s.findOwnedDocument(ctx, uow, userId, documentId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *documentService) ReindexDocument(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := s.findOwnedDocument(ctx, uow, userId, documentId)
	if err != nil {
		return err
	}

	if err := uow.DocumentRepository().SetStatus(ctx, doc.Id, entity.DocumentStatusPending); err != nil {
		return err
	}

	return s.publisher.PublishIndexDocument(&dto.PublishIndexDocumentMessage{DocumentId: doc.Id})
}

func (s *documentService) findOwnedDocument(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, documentId uuid.UUID) (*entity.Document, error) {
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document not found")
	}

	bot, err := uow.BotRepository().FindOne(ctx,
		specification.ByID{ID: doc.BotId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, fmt.Errorf("document not found or access denied")
	}

	return doc, nil
}

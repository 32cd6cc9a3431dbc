package service

import (
	"encoding/json"

	"clinic-assist-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishIndexDocument(payload *dto.PublishIndexDocumentMessage) error
}

// publisherService pushes document indexing jobs onto the in-process
// channel consumed by the indexing worker.
type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (ps *publisherService) PublishIndexDocument(payload *dto.PublishIndexDocumentMessage) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), raw)
	return ps.pubSub.Publish(ps.topicName, msg)
}

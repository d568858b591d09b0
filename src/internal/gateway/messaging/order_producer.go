package messaging

import (
	"lpg-marketplace/src/internal/model"
	"lpg-marketplace/src/pkg/kafka"
	"lpg-marketplace/src/pkg/log"
)

type OrderProducer struct {
	OrderCreatedProducer  Producer[*model.OrderEvent]
	StatusChangedProducer Producer[*model.OrderEvent]
	BroadcastProducer     Producer[*model.BroadcastOrderEvent]
}

func NewOrderProducer(producer kafka.Producer, log log.Log) *OrderProducer {
	return &OrderProducer{
		OrderCreatedProducer: Producer[*model.OrderEvent]{
			Producer: producer,
			Topic:    "order-created",
			Log:      log,
		},
		StatusChangedProducer: Producer[*model.OrderEvent]{
			Producer: producer,
			Topic:    "order-status",
			Log:      log,
		},
		BroadcastProducer: Producer[*model.BroadcastOrderEvent]{
			Producer: producer,
			Topic:    "order-broadcast",
			Log:      log,
		},
	}
}

func (p *OrderProducer) SendOrderCreated(event *model.OrderEvent) error {
	return p.OrderCreatedProducer.Send(event)
}

func (p *OrderProducer) SendStatusChanged(event *model.OrderEvent) error {
	return p.StatusChangedProducer.Send(event)
}

func (p *OrderProducer) SendBroadcast(event *model.BroadcastOrderEvent) error {
	return p.BroadcastProducer.Send(event)
}

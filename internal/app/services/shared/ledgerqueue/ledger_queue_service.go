package ledgerqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/constvars"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	TransmissionQueueName = "ledger_transmission_queue"
	ReceiptQueueName      = "ledger_receipt_queue"
	ReceiptDeadLetterName = "ledger_receipt_dlq"
)

// Service manages the RabbitMQ queues between the settlement service and the
// external disbursement ledger. Transmissions go out on the transmission
// queue; receipts come back on the receipt queue and are acked only after
// the coordinator has recorded them.
type Service struct {
	ch       *amqp.Channel
	log      *zap.Logger
	prefetch int
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

// NewService initializes the queue service, declares durable queues, enables confirms, and sets QoS.
func NewService(conn *amqp.Connection, log *zap.Logger, prefetch int) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for _, name := range []string{TransmissionQueueName, ReceiptQueueName, ReceiptDeadLetterName} {
		_, err = ch.QueueDeclare(
			name,  // name
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return nil, err
		}
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	// Publisher confirms so an unconfirmed transmission fails the settlement
	// attempt instead of vanishing.
	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	svc := &Service{
		ch:       ch,
		log:      log,
		prefetch: prefetch,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}

	return svc, nil
}

// FetchReceiptsInput specifies the maximum number of receipts to fetch.
type FetchReceiptsInput struct {
	Max int
}

// QueuedReceipt represents a fetched delivery and its decoded receipt.
type QueuedReceipt struct {
	DeliveryTag uint64
	Receipt     models.Receipt
}

// FetchReceiptsOutput returns up to N receipts.
type FetchReceiptsOutput struct {
	Items []QueuedReceipt
}

// AckReceiptInput acknowledges a receipt so it is removed from the queue.
type AckReceiptInput struct {
	DeliveryTag uint64
}

// AckReceiptOutput is empty.
type AckReceiptOutput struct{}

// EnqueueReceiptToDeadQueueInput moves an unprocessable receipt to the DLQ.
type EnqueueReceiptToDeadQueueInput struct {
	Receipt models.Receipt
}

// EnqueueReceiptToDeadQueueOutput is empty.
type EnqueueReceiptToDeadQueueOutput struct{}

// PublishTransmission publishes one transmission unit to the transmission
// queue with persistence and waits for the broker confirm.
func (s *Service) PublishTransmission(ctx context.Context, unit models.TransmissionUnit) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("LedgerQueue.PublishTransmission called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransmissionIDKey, unit.ID),
	)

	body, err := json.Marshal(unit)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	return s.publishRaw(ctx, TransmissionQueueName, body)
}

// FetchReceipts retrieves up to N receipts using basic.get without auto-ack.
func (s *Service) FetchReceipts(ctx context.Context, in *FetchReceiptsInput) (*FetchReceiptsOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("LedgerQueue.FetchReceipts called", zap.String(constvars.LoggingRequestIDKey, requestID))

	n := in.Max
	if n <= 0 {
		n = 1
	}
	items := make([]QueuedReceipt, 0, n)

	for i := 0; i < n; i++ {
		d, ok, err := s.ch.Get(ReceiptQueueName, false)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		var receipt models.Receipt
		if err := json.Unmarshal(d.Body, &receipt); err != nil {
			// Invalid JSON would loop forever on redelivery, so park it.
			_ = d.Ack(false)
			_ = s.publishRaw(ctx, ReceiptDeadLetterName, d.Body)
			continue
		}
		items = append(items, QueuedReceipt{DeliveryTag: d.DeliveryTag, Receipt: receipt})
	}

	return &FetchReceiptsOutput{Items: items}, nil
}

// AckReceipt acknowledges a receipt by delivery tag.
func (s *Service) AckReceipt(ctx context.Context, in *AckReceiptInput) (*AckReceiptOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("LedgerQueue.AckReceipt called", zap.String(constvars.LoggingRequestIDKey, requestID))
	if err := s.ch.Ack(in.DeliveryTag, false); err != nil {
		return nil, err
	}
	return &AckReceiptOutput{}, nil
}

// EnqueueReceiptToDeadQueue publishes the receipt to the DLQ and confirms.
func (s *Service) EnqueueReceiptToDeadQueue(ctx context.Context, in *EnqueueReceiptToDeadQueueInput) (*EnqueueReceiptToDeadQueueOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("LedgerQueue.EnqueueReceiptToDeadQueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransmissionIDKey, in.Receipt.TransmissionID),
	)

	body, err := json.Marshal(in.Receipt)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	if err := s.publishRaw(ctx, ReceiptDeadLetterName, body); err != nil {
		return nil, err
	}
	return &EnqueueReceiptToDeadQueueOutput{}, nil
}

// publishRaw publishes a raw body to a queue with persistence and waits for confirm.
func (s *Service) publishRaw(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}

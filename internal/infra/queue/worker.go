package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/xavierca1/workshop-payments/internal/logger"
)

var errMalformed = errors.New("payload malformado")

// MailSender entrega o email de fato (SMTP).
type MailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Consumer é o pedaço do *amqp.Channel usado pelo worker.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Sender  MailSender
}

func NewWorker(ch Consumer, sender MailSender) *Worker {
	return &Worker{
		Channel: ch,
		Sender:  sender,
	}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log := logger.WithComponent("worker").WithField("queue", queueName)
	log.Info(" [*] Worker rodando e aguardando mensagens")

	for {
		select {
		case <-ctx.Done():
			log.Info("worker encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Warn("canal de entregas fechado")
				return nil
			}
			w.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery: sucesso dá Ack; malformado vai direto pra DLQ; erro de envio
// volta pra fila uma vez e na segunda falha vai pra DLQ.
func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	log := logger.WithComponent("worker").WithFields(logrus.Fields{
		"delivery_tag": d.DeliveryTag,
		"redelivered":  d.Redelivered,
	})

	err := w.process(ctx, d.Body)
	switch {
	case err == nil:
		log.Info("📧 confirmação enviada")
		_ = d.Ack(false)
	case errors.Is(err, errMalformed):
		log.WithError(err).Error("❌ JSON inválido, mensagem descartada")
		_ = d.Nack(false, false)
	default:
		log.WithError(err).Warn("⚠️ falha no envio do email")
		_ = d.Nack(false, !d.Redelivered)
	}
}

func (w *Worker) process(ctx context.Context, body []byte) error {
	var payload NotificationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if payload.To == "" {
		return fmt.Errorf("%w: destinatário vazio", errMalformed)
	}
	return w.Sender.Send(ctx, payload.To, payload.Subject, payload.HTML)
}

package mailer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dkotenko/user-accounts/internal/logger"
)

// Message kinds understood by the mail-sender consumer.
const (
	KindActivation    = "account_activation"
	KindPasswordReset = "password_reset"
)

// Envelope is the payload published for every outgoing e-mail.
type Envelope struct {
	Kind  string `json:"kind"`
	To    string `json:"to"`
	Token string `json:"token"`
}

// KafkaMailer publishes e-mail envelopes to a Kafka topic consumed by
// the mail-sender service. WriteMessages waits for broker acks, so a
// returned nil means the envelope is durably queued.
type KafkaMailer struct {
	writer *kafka.Writer
}

// NewKafkaMailer creates a mailer publishing to the given brokers/topic.
func NewKafkaMailer(brokers []string, topic string) *KafkaMailer {
	return &KafkaMailer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// SendActivation queues an account-activation e-mail.
func (m *KafkaMailer) SendActivation(ctx context.Context, email, token string) error {
	return m.publish(ctx, Envelope{Kind: KindActivation, To: email, Token: token})
}

// SendPasswordReset queues a password-reset e-mail.
func (m *KafkaMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	return m.publish(ctx, Envelope{Kind: KindPasswordReset, To: email, Token: token})
}

func (m *KafkaMailer) publish(ctx context.Context, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}

	err = m.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.To),
		Value: payload,
	})
	logger.Log.Infow("publish mail envelope", "kind", env.Kind, "error", err)
	return err
}

// Close releases the underlying writer.
func (m *KafkaMailer) Close() error {
	return m.writer.Close()
}

package mq

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyBrokers       = errors.New("empty brokers")
	ErrEmptyTopicName     = errors.New("empty topic name")
	ErrUnsupportedPayload = errors.New("unsupported payload")
)

type Message struct {
	Payload Payload     `json:"payload,omitempty"`
	Key     string      `json:"key,omitempty"`
	Body    interface{} `json:"body,omitempty"`
}

func (msg *Message) ParseBody(dst interface{}) error {
	b, err := json.Marshal(msg.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// NewEmailMessage keys the message by email id so events of one send stay ordered.
func NewEmailMessage(payload Payload, event *EmailEvent) *Message {
	return &Message{
		Payload: payload,
		Key:     strconv.FormatUint(event.GetEmailID(), 10),
		Body:    event,
	}
}

type Publisher interface {
	SendMessage(msg *Message) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher drops every message. It is used when no brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) SendMessage(_ *Message) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}

type Producer struct {
	saramaProducer sarama.AsyncProducer
	topics         map[uint32]string
}

type ProducerConfig struct {
	Brokers []string          `json:"brokers,omitempty"`
	Topics  map[uint32]string `json:"topics,omitempty"`
}

func (c *ProducerConfig) validate() error {
	if len(c.Brokers) == 0 {
		return ErrEmptyBrokers
	}

	for task, topic := range c.Topics {
		if topic == "" {
			return ErrEmptyTopicName
		}

		if _, ok := Payloads[Payload(task)]; !ok {
			return ErrUnsupportedPayload
		}
	}

	return nil
}

// topics falls back to the payload name for payloads without a configured topic.
func (c *ProducerConfig) topics() map[uint32]string {
	topics := make(map[uint32]string, len(Payloads))
	for payload, name := range Payloads {
		topics[uint32(payload)] = name
	}
	for payload, topic := range c.Topics {
		topics[payload] = topic
	}
	return topics
}

func NewProducer(ctx context.Context, cfg ProducerConfig) (*Producer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Flush.Frequency = 500 * time.Millisecond
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, err
	}

	return newProducer(ctx, producer, cfg.topics()), nil
}

func newProducer(ctx context.Context, producer sarama.AsyncProducer, topics map[uint32]string) *Producer {
	go func() {
		for err := range producer.Errors() {
			log.Ctx(ctx).Error().Msgf("sarama produce error, topic: %s, err: %v",
				err.Msg.Topic, err.Err.Error())
		}
	}()

	return &Producer{
		saramaProducer: producer,
		topics:         topics,
	}
}

func (p *Producer) Close() error {
	return p.saramaProducer.Close()
}

func (p *Producer) SendMessage(msg *Message) error {
	topic, ok := p.topics[uint32(msg.Payload)]
	if !ok {
		return ErrUnsupportedPayload
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	saramaMsg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(msg.Key),
		Value: sarama.ByteEncoder(b),
	}
	p.saramaProducer.Input() <- saramaMsg

	return nil
}

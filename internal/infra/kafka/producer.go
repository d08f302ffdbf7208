package kafka

import (
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Producer struct {
	Sync  sarama.SyncProducer
	Async sarama.AsyncProducer
	log   *zap.Logger
}

func NewConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Retry.Backoff = time.Second
	config.Version = sarama.V2_5_0_0

	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	return config
}

func NewProducer(brokers []string, log *zap.Logger) (*Producer, error) {
	config := NewConfig()
	sp, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, errors.Wrap(err, "kafka sync producer")
	}
	ap, err := sarama.NewAsyncProducer(brokers, config)
	if err != nil {
		_ = sp.Close()
		return nil, errors.Wrap(err, "kafka async producer")
	}
	return WrapProducer(sp, ap, log), nil
}

// WrapProducer builds a Producer over existing sarama producers and drains
// the async side's result channels.
func WrapProducer(sp sarama.SyncProducer, ap sarama.AsyncProducer, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Producer{Sync: sp, Async: ap, log: log}
	if ap != nil {
		go func() {
			for err := range ap.Errors() {
				log.Warn("kafka async error", zap.String("topic", err.Msg.Topic), zap.Error(err.Err))
			}
		}()
		go func() {
			for range ap.Successes() {
			}
		}()
	}
	return p
}

func (p *Producer) SendSync(topic string, data []byte) error {
	_, _, err := p.Sync.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(data),
	})
	return err
}

func (p *Producer) SendAsync(topic string, data []byte) {
	p.Async.Input() <- &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(data),
	}
}

// Publish JSON-encodes v and sends it. The async producer is used when
// one is configured.
func (p *Producer) Publish(topic string, v interface{}) error {
	data, err := EncodeJSON(v)
	if err != nil {
		return errors.Wrap(err, "encode kafka message")
	}
	if p.Async != nil {
		p.SendAsync(topic, data)
		return nil
	}
	return p.SendSync(topic, data)
}

func (p *Producer) Close() error {
	var errs []error
	if p.Async != nil {
		if err := p.Async.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.Sync != nil {
		if err := p.Sync.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Errorf("close kafka producer: %v", errs)
	}
	return nil
}

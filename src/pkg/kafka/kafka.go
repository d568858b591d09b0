package kafka

import (
	"crypto/tls"
	"strings"
	"time"

	"lpg-marketplace/src/pkg/log"

	"github.com/IBM/sarama"
)

type Producer interface {
	Publish(topic string, key, value []byte) error
	Close() error
}

type KafkaConfig struct {
	Brokers  []string
	Username string
	Password string
	AppName  string
	UseSASL  bool
}

type Cfg struct {
	KafkaUrl      string
	KafkaUsername string
	KafkaPassword string
	AppName       string
}

var kafkaConfig KafkaConfig

func InitKafkaConfig(cfg Cfg) KafkaConfig {
	kafkaConfig = KafkaConfig{
		Brokers:  strings.Split(cfg.KafkaUrl, ","),
		Username: cfg.KafkaUsername,
		Password: cfg.KafkaPassword,
		AppName:  cfg.AppName,
		UseSASL:  cfg.KafkaUsername != "",
	}
	return kafkaConfig
}

func GetConfig() KafkaConfig {
	return kafkaConfig
}

func (kc KafkaConfig) GetSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = kc.AppName
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Retry.Backoff = 500 * time.Millisecond
	cfg.Producer.Timeout = 5 * time.Second

	if kc.UseSASL {
		cfg.Net.SASL.Enable = true
		cfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		cfg.Net.SASL.User = kc.Username
		cfg.Net.SASL.Password = kc.Password
		cfg.Net.TLS.Enable = true
		cfg.Net.TLS.Config = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return cfg
}

type syncProducer struct {
	producer sarama.SyncProducer
	log      log.Log
}

func NewProducer(kc KafkaConfig, logger log.Log) (Producer, error) {
	p, err := sarama.NewSyncProducer(kc.Brokers, kc.GetSaramaConfig())
	if err != nil {
		return nil, err
	}
	return &syncProducer{producer: p, log: logger}, nil
}

func (s *syncProducer) Publish(topic string, key, value []byte) error {
	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(value),
	}
	if _, _, err := s.producer.SendMessage(message); err != nil {
		s.log.Error("kafka-producer", "failed to publish message", "Publish", err.Error())
		return err
	}
	return nil
}

func (s *syncProducer) Close() error {
	return s.producer.Close()
}

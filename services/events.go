package services

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"ostech-hub/config"
	"ostech-hub/logger"
)

// Event topics.
const (
	TopicPayments    = "payments"
	TopicEnrollments = "enrollments"
)

// Publisher publishes lifecycle events to Kafka. Publishing is best-effort
// everywhere it is used; a nil or unconfigured publisher silently drops
// events.
type Publisher struct {
	mu      sync.Mutex
	writer  *kafka.Writer
	brokers []string
}

// NewPublisher initializes a Kafka writer using brokers from the config.
// An empty broker list disables publishing.
func NewPublisher(cfg *config.Config) *Publisher {
	p := &Publisher{}

	if cfg.KafkaBrokers == "" {
		logger.Info("Kafka is disabled (KAFKA_BROKERS is empty)")
		return p
	}

	var validBrokers []string
	for _, b := range strings.Split(cfg.KafkaBrokers, ",") {
		if b := strings.TrimSpace(b); b != "" {
			validBrokers = append(validBrokers, b)
		}
	}

	if len(validBrokers) == 0 {
		logger.Warn("No valid Kafka brokers configured")
		return p
	}

	p.brokers = validBrokers
	p.ensureTopicsExist()

	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(validBrokers...),
		Balancer:     &kafka.LeastBytes{},
		Async:        false,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireAll,
	}

	logger.Info("Kafka producer initialized. Brokers=%v", validBrokers)
	return p
}

// ensureTopicsExist creates the event topics if they don't already exist.
// This runs in a background goroutine to avoid blocking initialization.
func (p *Publisher) ensureTopicsExist() {
	brokers := p.brokers
	go func() {
		maxRetries := 5
		for attempt := 0; attempt < maxRetries; attempt++ {
			if attempt > 0 {
				time.Sleep(time.Duration(math.Pow(2, float64(attempt))) * time.Second)
			} else {
				time.Sleep(1 * time.Second)
			}

			conn, err := kafka.Dial("tcp", brokers[0])
			if err != nil {
				if attempt == maxRetries-1 {
					logger.Warn("Could not connect to Kafka broker for topic creation after %d attempts: %v (topics may need manual creation)", maxRetries, err)
				}
				continue
			}

			ok := true
			for _, topic := range []string{TopicPayments, TopicEnrollments} {
				err := conn.CreateTopics(kafka.TopicConfig{
					Topic:             topic,
					NumPartitions:     1,
					ReplicationFactor: 1,
				})
				if err != nil && !strings.Contains(err.Error(), "already exists") {
					logger.Warn("Could not create Kafka topic %s: %v", topic, err)
					ok = false
				}
			}
			conn.Close()
			if ok {
				return
			}
		}
	}()
}

// Publish marshals value to JSON and publishes to the given topic with key.
// Uses exponential backoff retry logic (3 attempts).
func (p *Publisher) Publish(topic, key string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		logger.Debug("Kafka producer not initialized, skipping publish to topic: %s", topic)
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		logger.Error("Error marshaling Kafka message: %v", err)
		return err
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := p.writer.WriteMessages(ctx, msg)
		cancel()

		if err == nil {
			logger.Info("Published to Kafka topic: %s key: %s", topic, key)
			return nil
		}

		lastErr = err
		if attempt < 2 {
			backoffTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			logger.Warn("Kafka publish attempt %d/%d failed, retrying in %v: %v", attempt+1, 3, backoffTime, err)
			time.Sleep(backoffTime)
		} else {
			logger.Error("Kafka publish failed after 3 attempts: %v", err)
		}
	}

	return lastErr
}

// Close gracefully closes the Kafka producer.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

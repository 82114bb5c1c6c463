package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// RiskAlert is the event published when a sample classifies in the
// highest risk band. Downstream notifiers key off the location.
type RiskAlert struct {
	SampleID     string    `json:"sample_id"`
	Location     string    `json:"location"`
	Standard     string    `json:"standard"`
	OverallIndex float64   `json:"overall_index"`
	RiskLevel    string    `json:"risk_level"`
	ComputedAt   time.Time `json:"computed_at"`
}

var writer *kafka.Writer

const defaultTopic = "hmpi-risk-alerts"

// Init configures the alert producer when KAFKA_BROKERS is set
// (comma-separated). Without it alerts are logged and dropped.
func Init() {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Println("KAFKA_BROKERS not set, risk alerts disabled")
		return
	}

	topic := os.Getenv("KAFKA_ALERT_TOPIC")
	if topic == "" {
		topic = defaultTopic
	}

	writer = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // partition by location
		RequiredAcks: kafka.RequireOne,
		Async:        false, // synchronous so a lost alert surfaces as an error
	}

	log.Printf("Risk alert producer ready (topic %s)", topic)
}

// Enabled reports whether a Kafka writer is configured.
func Enabled() bool {
	return writer != nil
}

// Publish sends one risk alert keyed by location.
func Publish(ctx context.Context, alert RiskAlert) error {
	if writer == nil {
		log.Printf("ALERT (no broker): %s at %s scored %.2f (%s)",
			alert.Location, alert.ComputedAt.Format(time.RFC3339), alert.OverallIndex, alert.RiskLevel)
		return nil
	}

	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(alert.Location),
		Value: data,
	}
	if err := writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write alert: %w", err)
	}
	return nil
}

// Close flushes and closes the producer.
func Close() error {
	if writer == nil {
		return nil
	}
	return writer.Close()
}

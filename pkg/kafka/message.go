package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ramsey-B/clover/pkg/models"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	Batch *models.ImportBatchMessage
}

// ParseBatch parses the message value as an import batch.
func (m *IncomingMessage) ParseBatch() error {
	var batch models.ImportBatchMessage
	if err := json.Unmarshal(m.Value, &batch); err != nil {
		return err
	}
	if len(batch.Rows) == 0 {
		return fmt.Errorf("batch %s carries no rows", batch.BatchID)
	}
	m.Batch = &batch
	return nil
}

// GetBatchID returns the batch id, falling back to the header.
func (m *IncomingMessage) GetBatchID() string {
	if m.Batch != nil && m.Batch.BatchID != "" {
		return m.Batch.BatchID
	}
	return m.Headers["batch_id"]
}

// GetSource returns the reporting source system, falling back to the header.
func (m *IncomingMessage) GetSource() string {
	if m.Batch != nil && m.Batch.Source != "" {
		return m.Batch.Source
	}
	return m.Headers["source"]
}

// Package events handles event emission for import lifecycle changes
package events

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/tracing"

	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/models"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter handles event emission for Clover
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitImportCompleted emits an import.completed event carrying the batch
// statistics. A nil producer (events disabled) is a no-op.
func (e *Emitter) EmitImportCompleted(ctx context.Context, batchID, source string, stats *models.ImportStats) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitImportCompleted")
	defer span.End()

	if e.producer == nil {
		return nil
	}

	event := &kafka.ImportEvent{
		EventType: "import.completed",
		BatchID:   batchID,
		Source:    source,
		Stats:     stats,
	}

	if err := e.producer.PublishImportEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit import.completed event")
		return err
	}

	return nil
}

package importer

import (
	"context"

	"github.com/Gobusters/ectologger"

	appctx "github.com/Ramsey-B/clover/pkg/context"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/metrics"
)

// NewKafkaHandler adapts the pipeline to the consumer: each message is one
// batch of rows. The handler returns nil even when rows failed, because row
// errors are part of the stats, not a reason to redeliver the batch.
func NewKafkaHandler(pipeline *Pipeline, emitter *events.Emitter, logger ectologger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg *kafka.IncomingMessage) error {
		ctx = appctx.SetBatchID(ctx, msg.GetBatchID())

		metrics.ImportBatchesTotal.WithLabelValues("kafka").Inc()

		stats := pipeline.ProcessBatch(ctx, msg.Batch.Rows)

		if len(stats.Errors) > 0 {
			logger.WithContext(ctx).WithFields(map[string]any{
				"batch_id": msg.GetBatchID(),
				"errors":   len(stats.Errors),
			}).Warn("Import batch completed with row errors")
		}

		if err := emitter.EmitImportCompleted(ctx, msg.GetBatchID(), msg.GetSource(), stats); err != nil {
			// The batch itself committed; a failed event emission is not
			// worth reprocessing every row.
			logger.WithContext(ctx).WithError(err).Error("Failed to emit import completion")
		}

		return nil
	}
}

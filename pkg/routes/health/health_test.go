package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/clover/pkg/kafka"
)

type stubConsumer struct {
	healthy bool
}

func (s *stubConsumer) Health() bool { return s.healthy }

func TestCheckConsumer_Disabled(t *testing.T) {
	h := NewChecker(nil, nil, "test")

	result := h.checkConsumer()
	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "consumer disabled", result.Message)
}

func TestCheckConsumer_Running(t *testing.T) {
	h := NewChecker(nil, &stubConsumer{healthy: true}, "test")
	assert.Equal(t, "healthy", h.checkConsumer().Status)
}

func TestCheckConsumer_NotRunning(t *testing.T) {
	h := NewChecker(nil, &stubConsumer{}, "test")

	result := h.checkConsumer()
	assert.Equal(t, "unhealthy", result.Status)
	assert.Equal(t, "consumer not running", result.Message)
}

func TestCheckConsumer_NilConcreteConsumer(t *testing.T) {
	// A nil *kafka.Consumer stored in the interface is not a nil interface,
	// so the nil guard alone cannot catch it. The check must degrade to
	// unhealthy rather than panic.
	var consumer *kafka.Consumer
	h := NewChecker(nil, consumer, "test")

	var result CheckResult
	assert.NotPanics(t, func() { result = h.checkConsumer() })
	assert.Equal(t, "unhealthy", result.Status)
}

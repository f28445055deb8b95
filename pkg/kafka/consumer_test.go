package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsumerHealth_NilReceiver(t *testing.T) {
	var c *Consumer
	assert.NotPanics(t, func() {
		assert.False(t, c.Health())
	})
}

func TestConsumerHealth_NoReader(t *testing.T) {
	assert.False(t, (&Consumer{}).Health())
}

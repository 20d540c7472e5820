package training

import (
	"bytes"
	"strings"
	"testing"

	"github.com/poiesic/medseq/network"
	"github.com/stretchr/testify/assert"
)

func TestVerbosityFor(t *testing.T) {
	assert.Equal(t, VerbosityBatch, VerbosityFor(true))
	assert.Equal(t, VerbosityEpoch, VerbosityFor(false))
}

func TestProgressTracker_Batch(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, VerbosityBatch)

	tracker.EpochBegin(0, 2, 4)
	for i := 0; i < 4; i++ {
		tracker.BatchEnd(i, network.Metrics{Loss: 0.5})
	}
	tracker.EpochEnd(0, network.Metrics{Loss: 0.5, Accuracy: 0.25})

	output := buf.String()
	assert.Contains(t, output, "\rEpoch 1/2: 4/4 (100.0%)")
	assert.Contains(t, output, "accuracy: 0.2500")
	assert.True(t, strings.HasSuffix(output, "\n"))
}

func TestProgressTracker_Epoch(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, VerbosityEpoch)

	tracker.EpochBegin(1, 3, 10)
	tracker.BatchEnd(0, network.Metrics{})
	tracker.EpochEnd(1, network.Metrics{Top10: 1})

	output := buf.String()
	assert.NotContains(t, output, "\r")
	assert.Equal(t, 1, strings.Count(output, "\n"))
	assert.Contains(t, output, "Epoch 2/3")
	assert.Contains(t, output, "top10: 1.0000")
}

func TestProgressTracker_Silent(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, VerbositySilent)

	tracker.EpochBegin(0, 1, 1)
	tracker.BatchEnd(0, network.Metrics{})
	tracker.EpochEnd(0, network.Metrics{})
	assert.Empty(t, buf.String())
}

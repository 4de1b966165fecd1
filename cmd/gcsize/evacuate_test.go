package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvacuateCommand_Cycles(t *testing.T) {
	resetFlags()
	jsonOut = true
	evacObjects = 12
	evacHashEvery = 1
	evacCycles = 2
	evacWorkers = 4

	output, err := captureOutput(t, func() error {
		return runEvacuate(context.Background(), []string{testTablePath(t, "classes.yaml")})
	})
	require.NoError(t, err)

	var reports []cycleReport
	require.NoError(t, json.Unmarshal([]byte(output), &reports))
	require.Len(t, reports, 2)

	for _, r := range reports {
		assert.Equal(t, 12, r.Copied, "cycle %d", r.Cycle)
		assert.GreaterOrEqual(t, r.BytesReserved, r.BytesCopied)
	}
	// Object, Body24 and Hot twice each, plus [I with two elements.
	assert.Equal(t, 7, reports[0].HashSlots)
	assert.Equal(t, reports[0].BytesReserved-reports[0].BytesCopied, uint64(7*8))

	// Everything hashed in cycle one moved with its hash; cycle two copies
	// the slots and adds none.
	assert.Equal(t, 0, reports[1].HashSlots)
	assert.Equal(t, reports[1].BytesCopied, reports[1].BytesReserved)
	assert.Equal(t, reports[0].BytesReserved, reports[1].BytesCopied)
}

func TestEvacuateCommand_NoHashing(t *testing.T) {
	resetFlags()
	evacObjects = 30
	evacHashEvery = 0
	evacHot = true

	output, err := captureOutput(t, func() error {
		return runEvacuate(context.Background(), []string{testTablePath(t, "classes.yaml")})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"cycle 1: copied 30 objects", "0 hash slots added"})
}

func TestEvacuateCommand_Cancelled(t *testing.T) {
	resetFlags()
	evacObjects = 50

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := captureOutput(t, func() error {
		return runEvacuate(ctx, []string{testTablePath(t, "classes.yaml")})
	})
	require.ErrorIs(t, err, context.Canceled)
}

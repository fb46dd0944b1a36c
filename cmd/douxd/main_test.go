package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sova-org/doux/internal/engine"
)

func TestReadCommandsEvaluatesEachLine(t *testing.T) {
	locked := &lockedEngine{eng: engine.New(48000)}
	in := strings.NewReader("# a comment\n\n/freq/440\n/freq/220\n")

	err := readCommands(context.Background(), locked, in)
	require.NoError(t, err)
	require.Equal(t, 2, locked.eng.ActiveVoices)
}

func TestReadCommandsStopsOnCancelledContext(t *testing.T) {
	locked := &lockedEngine{eng: engine.New(48000)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := strings.NewReader("/freq/440\n")
	err := readCommands(ctx, locked, in)
	require.Error(t, err)
	require.Equal(t, 0, locked.eng.ActiveVoices)
}

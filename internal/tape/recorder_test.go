package tape

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/engine"
)

func TestNewSession_RecordsActions(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)

	rec, err := NewSession(ctx, st, engine.New(), NewFixedGenerator("s-1"), "test")
	require.NoError(t, err)
	assert.Equal(t, "s-1", rec.SessionID())

	snap, err := rec.Apply(ctx, engine.Digit(5))
	require.NoError(t, err)
	assert.Equal(t, "5", snap.Display)

	snap, err = rec.Apply(ctx, engine.Operator(engine.OpAdd))
	require.NoError(t, err)
	assert.Equal(t, "5 +", snap.SecondaryLine)

	entries, err := st.ReadSession(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, int64(1), entries[0].Seq)
	assert.Equal(t, engine.Digit(5), entries[0].Action)
	assert.Equal(t, "5", entries[0].Display)

	assert.Equal(t, int64(2), entries[1].Seq)
	assert.Equal(t, engine.Operator(engine.OpAdd), entries[1].Action)
	assert.Equal(t, "5 +", entries[1].Secondary)
}

func TestRecorder_EntryHashesVerify(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)

	rec, err := NewSession(ctx, st, engine.New(), NewFixedGenerator("s-1"), "test")
	require.NoError(t, err)

	for _, a := range []engine.Action{
		engine.Digit(2), engine.Operator(engine.OpAdd), engine.Digit(3), engine.Equals(),
	} {
		_, err := rec.Apply(ctx, a)
		require.NoError(t, err)
	}

	entries, err := st.ReadSession(ctx, "s-1")
	require.NoError(t, err)
	for _, e := range entries {
		want, err := EntryID(e.SessionID, e.Seq, e.Action, e.Snapshot())
		require.NoError(t, err)
		assert.Equal(t, want, e.ID, "seq %d", e.Seq)
	}
}

func TestResume_ContinuesSeqAndState(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)

	rec, err := NewSession(ctx, st, engine.New(), NewFixedGenerator("s-1"), "test")
	require.NoError(t, err)
	_, err = rec.Apply(ctx, engine.Digit(5))
	require.NoError(t, err)
	_, err = rec.Apply(ctx, engine.Operator(engine.OpAdd))
	require.NoError(t, err)

	// Resume with a fresh engine: recorded actions are re-applied, seq
	// continues after the last entry.
	resumed, err := Resume(ctx, st, engine.New(), "s-1")
	require.NoError(t, err)

	assert.Equal(t, "5 +", resumed.Snapshot().SecondaryLine)

	snap, err := resumed.Apply(ctx, engine.Digit(3))
	require.NoError(t, err)
	assert.Equal(t, "3", snap.Display)

	entries, err := st.ReadSession(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(3), entries[2].Seq)
}

func TestResume_UnknownSession(t *testing.T) {
	ctx := context.Background()
	st := setupTestStore(t)

	_, err := Resume(ctx, st, engine.New(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

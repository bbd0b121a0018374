package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"llmgateway/internal/llmgw"
)

func TestMemoryStoreAppendAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.AppendMessages(ctx, "t1", []llmgw.Message{{Role: "user", Content: "hi"}}))
	require.NoError(t, store.AppendMessages(ctx, "t1", []llmgw.Message{{Role: "assistant", Content: "hello"}}))

	msgs, err := store.GetMessages(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "hi", msgs[0].Content)
	require.Equal(t, "hello", msgs[1].Content)
}

func TestMemoryStoreGetMessagesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.AppendMessages(ctx, "t1", []llmgw.Message{{Role: "user", Content: "hi"}}))

	msgs, err := store.GetMessages(ctx, "t1")
	require.NoError(t, err)
	msgs[0].Content = "mutated"

	again, err := store.GetMessages(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "hi", again[0].Content)
}

func TestMemoryStoreDeleteThread(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.AppendMessages(ctx, "t1", []llmgw.Message{{Role: "user", Content: "hi"}}))

	require.NoError(t, store.DeleteThread(ctx, "t1"))

	msgs, err := store.GetMessages(ctx, "t1")
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestMemoryStoreUnknownThreadReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	msgs, err := store.GetMessages(ctx, "missing")
	require.NoError(t, err)
	require.Empty(t, msgs)
}

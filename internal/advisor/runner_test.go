package advisor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/advisor/internal/domain"
	"github.com/soyeahso/advisor/internal/logging"
	"github.com/soyeahso/advisor/internal/provider"
	"github.com/soyeahso/advisor/internal/session"
)

func testRunner(t *testing.T, client provider.Client) (*Runner, *session.MemoryStore) {
	t.Helper()
	log := logging.New(io.Discard, "silent")
	store := session.NewMemoryStore(20, 0, log)
	t.Cleanup(func() { store.Close() })
	return NewRunner(store, client, log), store
}

func TestChatCreatesSessionAndPersistsPair(t *testing.T) {
	mock := &provider.MockClient{CompleteFunc: func(ctx context.Context, system string, history []domain.Message) (string, error) {
		return "the answer", nil
	}}
	runner, store := testRunner(t, mock)

	result, err := runner.Chat(context.Background(), "", "what about cost?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", result.Reply)
	assert.True(t, strings.HasPrefix(result.Token, domain.TokenPrefix))

	_, history := store.GetOrCreate(result.Token)
	require.Len(t, history, 2)
	assert.Equal(t, domain.User("what about cost?"), history[0])
	assert.Equal(t, domain.Assistant("the answer"), history[1])
}

func TestChatSendsSystemPromptNotStored(t *testing.T) {
	mock := &provider.MockClient{}
	runner, store := testRunner(t, mock)

	result, err := runner.Chat(context.Background(), "", "hello")
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, SystemPrompt, calls[0].System)

	// The persona prompt travels on the wire but never enters history.
	_, history := store.GetOrCreate(result.Token)
	for _, m := range history {
		assert.NotEqual(t, domain.RoleSystem, m.Role)
	}
}

func TestChatSecondTurnCarriesHistory(t *testing.T) {
	mock := &provider.MockClient{}
	runner, _ := testRunner(t, mock)

	first, err := runner.Chat(context.Background(), "", "first question")
	require.NoError(t, err)

	second, err := runner.Chat(context.Background(), first.Token, "second question")
	require.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)

	calls := mock.Calls()
	require.Len(t, calls, 2)

	// Second upstream call sees both stored turns plus the new message.
	require.Len(t, calls[1].History, 3)
	assert.Equal(t, "first question", calls[1].History[0].Content)
	assert.Equal(t, domain.RoleAssistant, calls[1].History[1].Role)
	assert.Equal(t, "second question", calls[1].History[2].Content)
}

func TestChatUpstreamFailureLeavesHistoryUntouched(t *testing.T) {
	var fail bool
	mock := &provider.MockClient{CompleteFunc: func(ctx context.Context, system string, history []domain.Message) (string, error) {
		if fail {
			return "", &provider.UpstreamError{Status: 500, Message: "boom"}
		}
		return "ok", nil
	}}
	runner, store := testRunner(t, mock)

	first, err := runner.Chat(context.Background(), "", "seed")
	require.NoError(t, err)

	fail = true
	_, err = runner.Chat(context.Background(), first.Token, "doomed")
	var ue *provider.UpstreamError
	require.ErrorAs(t, err, &ue)

	// The failed turn's user message was never persisted.
	_, history := store.GetOrCreate(first.Token)
	require.Len(t, history, 2)
	assert.Equal(t, "seed", history[0].Content)

	// Resending after the failure works and does not duplicate anything.
	fail = false
	_, err = runner.Chat(context.Background(), first.Token, "doomed")
	require.NoError(t, err)
	_, history = store.GetOrCreate(first.Token)
	require.Len(t, history, 4)
	assert.Equal(t, "doomed", history[2].Content)
}

func TestChatLongConversationStaysBounded(t *testing.T) {
	mock := &provider.MockClient{}
	runner, store := testRunner(t, mock)

	token := ""
	for i := 0; i < 25; i++ {
		result, err := runner.Chat(context.Background(), token, fmt.Sprintf("turn %d", i))
		require.NoError(t, err)
		token = result.Token
	}

	// 25 round trips appended 50 messages; the 20 newest survive.
	_, history := store.GetOrCreate(token)
	require.Len(t, history, 20)
	assert.Equal(t, "turn 15", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[19].Role)
}

func TestChatEmptyMessage(t *testing.T) {
	mock := &provider.MockClient{}
	runner, _ := testRunner(t, mock)

	_, err := runner.Chat(context.Background(), "", "")
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, mock.Calls())
}

func TestChatUnknownTokenStartsFresh(t *testing.T) {
	mock := &provider.MockClient{}
	runner, _ := testRunner(t, mock)

	result, err := runner.Chat(context.Background(), "conv_000_stale", "hello")
	require.NoError(t, err)
	assert.NotEqual(t, "conv_000_stale", result.Token)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0].History, 1)
}

func TestReset(t *testing.T) {
	mock := &provider.MockClient{}
	runner, store := testRunner(t, mock)

	result, err := runner.Chat(context.Background(), "", "hello")
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	runner.Reset(result.Token)
	assert.Equal(t, 0, store.Len())

	runner.Reset(result.Token)
	runner.Reset("")
}

func TestChatConcurrentTurnsOnOneToken(t *testing.T) {
	mock := &provider.MockClient{}
	runner, store := testRunner(t, mock)

	seed, err := runner.Chat(context.Background(), "", "seed")
	require.NoError(t, err)

	const turns = 10
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := runner.Chat(context.Background(), seed.Token, "concurrent")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Every turn appended a full pair; the cap of 20 bounds the result.
	_, history := store.GetOrCreate(seed.Token)
	assert.Len(t, history, 20)

	// Each upstream call saw a consistent snapshot: an odd-length history
	// ending with the new user message.
	for _, call := range mock.Calls() {
		assert.Equal(t, 1, len(call.History)%2)
		assert.Equal(t, domain.RoleUser, call.History[len(call.History)-1].Role)
	}
}

func TestProviderName(t *testing.T) {
	runner, _ := testRunner(t, &provider.MockClient{ProviderName: "Azure OpenAI"})
	assert.Equal(t, "Azure OpenAI", runner.Provider())
}

package memory_test

import (
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/roadbite/roadbite/internal/memory"
)

func TestChannelsAreIsolatedPerPersona(t *testing.T) {
	store := memory.NewStore()

	store.Append("orchestrator", "s1", schema.UserMessage("hungry"))
	store.Append("burger", "s1", schema.UserMessage("one bacon burger"))

	orch := store.History("orchestrator", "s1")
	burger := store.History("burger", "s1")

	if len(orch) != 1 || orch[0].Content != "hungry" {
		t.Fatalf("unexpected orchestrator channel: %+v", orch)
	}
	if len(burger) != 1 || burger[0].Content != "one bacon burger" {
		t.Fatalf("unexpected burger channel: %+v", burger)
	}
}

func TestChannelsAreIsolatedPerSession(t *testing.T) {
	store := memory.NewStore()

	store.Append("burger", "s1", schema.UserMessage("fries"))

	if got := store.History("burger", "s2"); got != nil {
		t.Fatalf("expected empty channel for other session, got %+v", got)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	store := memory.NewStore()
	store.Append("pizza", "s1", schema.UserMessage("margherita"))

	h := store.History("pizza", "s1")
	h[0] = schema.UserMessage("mutated")

	if got := store.History("pizza", "s1"); got[0].Content != "margherita" {
		t.Fatalf("store affected by caller mutation: %s", got[0].Content)
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	store := memory.NewStore()

	store.Append("salad", "s1", schema.UserMessage("kale bowl"))
	store.Append("salad", "s1",
		schema.AssistantMessage("One Kale Power Bowl - confirm?", nil),
		schema.UserMessage("yes"),
	)

	h := store.History("salad", "s1")
	if len(h) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(h))
	}
	if h[1].Role != schema.Assistant || h[2].Content != "yes" {
		t.Fatalf("unexpected order: %+v", h)
	}
}

package history

import (
	"testing"

	"jarvisdesk/internal/domain"
)

func TestStoreAppendOrderAndClear(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Append(domain.ChatMessage{Sender: domain.SenderUser, Text: "hi"})
	store.Append(domain.ChatMessage{Sender: domain.SenderAssistant, Text: "hello Boss"})

	messages := store.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Sender != domain.SenderUser || messages[1].Sender != domain.SenderAssistant {
		t.Fatalf("unexpected order: %+v", messages)
	}

	store.Clear()
	if store.Len() != 0 {
		t.Fatalf("expected empty store after clear")
	}
}

func TestStoreMessagesReturnsCopy(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Append(domain.ChatMessage{Sender: domain.SenderUser, Text: "hi"})

	messages := store.Messages()
	messages[0].Text = "mutated"

	if store.Messages()[0].Text != "hi" {
		t.Fatalf("store exposed internal slice")
	}
}

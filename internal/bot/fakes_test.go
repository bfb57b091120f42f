package bot

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aybee/nickbot/internal/lookup"
	"github.com/aybee/nickbot/internal/session"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

type sentMessage struct {
	chatID  int64
	text    string
	buttons [][]Button
}

type fakeMessenger struct {
	mu      sync.Mutex
	nextID  int64
	texts   []sentMessage
	prompts []sentMessage
	edits   map[session.MessageRef]string
	deleted []session.MessageRef

	deleteErr error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{edits: make(map[session.MessageRef]string)}
}

func (f *fakeMessenger) SendText(_ context.Context, chatID int64, text string) (session.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.texts = append(f.texts, sentMessage{chatID: chatID, text: text})
	return session.MessageRef{ChatID: chatID, MessageID: f.nextID}, nil
}

func (f *fakeMessenger) SendWithButtons(_ context.Context, chatID int64, text string, buttons [][]Button) (session.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.prompts = append(f.prompts, sentMessage{chatID: chatID, text: text, buttons: buttons})
	return session.MessageRef{ChatID: chatID, MessageID: f.nextID}, nil
}

func (f *fakeMessenger) EditMessageText(_ context.Context, ref session.MessageRef, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits[ref] = text
	return nil
}

func (f *fakeMessenger) DeleteMessage(_ context.Context, ref session.MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ref)
	return f.deleteErr
}

func (f *fakeMessenger) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1].text
}

type fakeChecker struct {
	status string
	err    error
}

func (f *fakeChecker) GetMembershipStatus(context.Context, string, int64) (string, error) {
	return f.status, f.err
}

type fakeLookup struct {
	mu        sync.Mutex
	result    lookup.Result
	endpoints []string
}

func (f *fakeLookup) Fetch(_ context.Context, endpoint string) lookup.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endpoints = append(f.endpoints, endpoint)
	return f.result
}

func (f *fakeLookup) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.endpoints...)
}

package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	catalogx "github.com/tanpawarit/Chative-Parts-Finder/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
	intentx "github.com/tanpawarit/Chative-Parts-Finder/agent/intent"
	promptx "github.com/tanpawarit/Chative-Parts-Finder/agent/prompt"
	statex "github.com/tanpawarit/Chative-Parts-Finder/agent/state"
)

type fakeStore struct {
	loadState *statex.SessionState
	loadErr   error
	saveErr   error
	saved     []*statex.SessionState
}

func (f *fakeStore) Load(ctx context.Context, sessionID string) (*statex.SessionState, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.loadState == nil {
		return nil, statex.ErrStateNotFound
	}
	return f.loadState.Clone(), nil
}

func (f *fakeStore) Save(ctx context.Context, st *statex.SessionState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, st.Clone())
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, sessionID string) error {
	return nil
}

type fakeDispatcher struct {
	reply contractx.Reply
	err   error
	calls []string
	slots map[string]string
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, st *statex.SessionState, utterance string) (contractx.Reply, error) {
	f.calls = append(f.calls, utterance)
	if f.err != nil {
		return contractx.Reply{}, f.err
	}
	for k, v := range f.slots {
		_ = st.SetSlot(k, v)
	}
	return f.reply, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
}

func newTestOrchestrator(t *testing.T, store statex.Store, dispatcher contractx.IntentDispatcher) *Orchestrator {
	t.Helper()
	o, err := New(store, dispatcher, WithClock(fixedNow))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, &fakeDispatcher{}); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := New(&fakeStore{}, nil); err == nil {
		t.Fatal("expected error for nil dispatcher")
	}
}

func TestHandleMessageInvalidSession(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{}
	o := newTestOrchestrator(t, &fakeStore{}, dispatcher)

	_, err := o.HandleMessage(context.Background(), "   ", "hello")
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if len(dispatcher.calls) != 0 {
		t.Fatalf("dispatcher must not be called, got %d calls", len(dispatcher.calls))
	}
}

func TestHandleMessageSavesSession(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	dispatcher := &fakeDispatcher{
		reply: contractx.Reply{Intent: contractx.IntentSetModel, Text: "Model number XJ200 selected. What part are you looking for?"},
		slots: map[string]string{statex.SlotModelNumber: "XJ200"},
	}
	o := newTestOrchestrator(t, store, dispatcher)

	reply, err := o.HandleMessage(context.Background(), "session-1", "I have model XJ200\n")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != dispatcher.reply.Text {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(dispatcher.calls) != 1 || dispatcher.calls[0] != "I have model XJ200" {
		t.Fatalf("unexpected dispatch calls: %q", dispatcher.calls)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(store.saved))
	}

	saved := store.saved[0]
	if saved.SessionID != "session-1" {
		t.Fatalf("SessionID = %q", saved.SessionID)
	}
	if got, _ := saved.Slot(statex.SlotModelNumber); got != "XJ200" {
		t.Fatalf("model_number = %q, want XJ200", got)
	}
	if saved.Turns != 1 {
		t.Fatalf("Turns = %d, want 1", saved.Turns)
	}
	if !saved.UpdatedAt.Equal(fixedNow()) {
		t.Fatalf("UpdatedAt = %v, want %v", saved.UpdatedAt, fixedNow())
	}
}

func TestHandleMessageEmptyReply(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, &fakeStore{}, &fakeDispatcher{reply: contractx.Reply{Text: "  "}})

	_, err := o.HandleMessage(context.Background(), "session-2", "hello")
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestHandleMessageLoadErrorPropagates(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("load failed")
	dispatcher := &fakeDispatcher{reply: contractx.Reply{Text: "ok"}}
	o := newTestOrchestrator(t, &fakeStore{loadErr: loadErr}, dispatcher)

	_, err := o.HandleMessage(context.Background(), "session-3", "hello")
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected load error, got %v", err)
	}
	if len(dispatcher.calls) != 0 {
		t.Fatalf("dispatcher must not be called on load error, got %d", len(dispatcher.calls))
	}
}

func TestHandleMessageSaveErrorPropagates(t *testing.T) {
	t.Parallel()

	saveErr := errors.New("save failed")
	o := newTestOrchestrator(t, &fakeStore{saveErr: saveErr}, &fakeDispatcher{reply: contractx.Reply{Text: "ok"}})

	_, err := o.HandleMessage(context.Background(), "session-4", "hello")
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected save error, got %v", err)
	}
}

func TestHandleMessageDispatchErrorPropagates(t *testing.T) {
	t.Parallel()

	dispatchErr := errors.New("dispatch failed")
	store := &fakeStore{}
	o := newTestOrchestrator(t, store, &fakeDispatcher{err: dispatchErr})

	_, err := o.HandleMessage(context.Background(), "session-5", "hello")
	if !errors.Is(err, dispatchErr) {
		t.Fatalf("expected dispatch error, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("state must not be saved on dispatch error, got %d saves", len(store.saved))
	}
}

func TestHandleMessageSessionsAreIndependent(t *testing.T) {
	t.Parallel()

	parts := catalogx.NewTable(contractx.TableParts, nil, []catalogx.Row{
		{
			contractx.FieldModelNumber: "XJ200",
			contractx.FieldDescription: "filter",
			contractx.FieldPartNumber:  "FLT-200",
			contractx.FieldType:        "Air",
			contractx.FieldYearSold:    "2021",
			contractx.FieldPrice:       "24.5",
		},
	})
	replies := promptx.MustLoadReplySet()
	dispatcher, err := intentx.NewDispatcher(catalogx.New(parts, nil), replies)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	o := newTestOrchestrator(t, statex.NewMemoryStore(), dispatcher)
	ctx := context.Background()

	if _, err := o.HandleMessage(ctx, "a", "I have model XJ200"); err != nil {
		t.Fatalf("HandleMessage(a) error = %v", err)
	}

	reply, err := o.HandleMessage(ctx, "b", "I'm looking for a filter")
	if err != nil {
		t.Fatalf("HandleMessage(b) error = %v", err)
	}
	if reply != replies.NeedModel {
		t.Fatalf("session b reply = %q, want %q", reply, replies.NeedModel)
	}

	reply, err = o.HandleMessage(ctx, "a", "I'm looking for a filter")
	if err != nil {
		t.Fatalf("HandleMessage(a) error = %v", err)
	}
	if !strings.Contains(reply, "Part Number: FLT-200") {
		t.Fatalf("session a reply = %q", reply)
	}

	reply, err = o.HandleMessage(ctx, "a", "what's the price")
	if err != nil {
		t.Fatalf("HandleMessage(a) error = %v", err)
	}
	if reply != "The price for this part is $24.50" {
		t.Fatalf("session a price reply = %q", reply)
	}

	if err := o.EndSession(ctx, "a"); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	reply, err = o.HandleMessage(ctx, "a", "show me the diagram")
	if err != nil {
		t.Fatalf("HandleMessage(a) error = %v", err)
	}
	if reply != replies.Fallback {
		t.Fatalf("ended session reply = %q, want fallback", reply)
	}
}

package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/aybee/nickbot/internal/catalog"
	"github.com/aybee/nickbot/internal/lookup"
	"github.com/aybee/nickbot/internal/session"
)

type routerFixture struct {
	router  *Router
	msgr    *fakeMessenger
	checker *fakeChecker
	lookup  *fakeLookup
}

func newRouterFixture() *routerFixture {
	msgr := newFakeMessenger()
	checker := &fakeChecker{status: "member"}
	lookupSvc := &fakeLookup{result: lookup.Result{
		Success: true, Game: "LifeAfter", ID: "12345", Server: "2001", Name: "Survivor",
	}}

	gate := NewGate(checker, msgr, "@testgroup", testJoinLink, testLogger())
	router := NewRouter(catalog.New(), session.NewStore(0, nil), gate, lookupSvc, msgr, nil, testLogger())

	return &routerFixture{router: router, msgr: msgr, checker: checker, lookup: lookupSvc}
}

func TestStartRendersCatalogKeyboard(t *testing.T) {
	f := newRouterFixture()

	f.router.Start(context.Background(), 1, 10)

	if len(f.msgr.prompts) != 1 {
		t.Fatalf("expected one keyboard message, got %d", len(f.msgr.prompts))
	}
	prompt := f.msgr.prompts[0]
	if prompt.text != replySelectGame {
		t.Errorf("unexpected prompt text %q", prompt.text)
	}
	if len(prompt.buttons) != 15 {
		t.Fatalf("expected 15 button rows, got %d", len(prompt.buttons))
	}
	// Declaration order is UI-significant.
	if prompt.buttons[0][0].Text != "Aether Gazer" || prompt.buttons[1][0].CallbackData != "Genshin Impact" {
		t.Errorf("buttons out of catalog order: %+v", prompt.buttons[:2])
	}
}

func TestStartBlockedSendsNoKeyboard(t *testing.T) {
	f := newRouterFixture()
	f.checker.status = "left"

	f.router.Start(context.Background(), 1, 10)

	for _, p := range f.msgr.prompts {
		if p.text == replySelectGame {
			t.Fatal("keyboard must not render for a blocked user")
		}
	}
}

func TestSelectRecordsGameAndEditsPrompt(t *testing.T) {
	f := newRouterFixture()
	ref := session.MessageRef{ChatID: 10, MessageID: 5}

	f.router.Select(context.Background(), 1, ref, "LifeAfter")

	sess, release := f.router.sessions.Acquire(1)
	selected := sess.SelectedGame
	release()
	if selected != "LifeAfter" {
		t.Errorf("expected selection recorded, got %q", selected)
	}
	if edited := f.msgr.edits[ref]; !strings.Contains(edited, "You selected: LifeAfter") {
		t.Errorf("expected input prompt edit, got %q", edited)
	}
}

func TestSelectOverwritesPriorChoice(t *testing.T) {
	f := newRouterFixture()
	ref := session.MessageRef{ChatID: 10, MessageID: 5}

	f.router.Select(context.Background(), 1, ref, "Valorant")
	f.router.Select(context.Background(), 1, ref, "Genshin Impact")

	sess, release := f.router.sessions.Acquire(1)
	defer release()
	if sess.SelectedGame != "Genshin Impact" {
		t.Errorf("re-selection should overwrite, got %q", sess.SelectedGame)
	}
}

func TestSelectUnknownGameIsRejected(t *testing.T) {
	f := newRouterFixture()
	ref := session.MessageRef{ChatID: 10, MessageID: 5}

	f.router.Select(context.Background(), 1, ref, "Chess")

	sess, release := f.router.sessions.Acquire(1)
	defer release()
	if sess.SelectedGame != "" {
		t.Errorf("forged selection must not be recorded, got %q", sess.SelectedGame)
	}
	if edited := f.msgr.edits[ref]; edited != replyLookupFailed {
		t.Errorf("expected generic failure edit, got %q", edited)
	}
}

func TestInputWithoutSelectionNeverInvokesLookup(t *testing.T) {
	f := newRouterFixture()

	f.router.Input(context.Background(), 1, 10, "12345")

	if len(f.lookup.calls()) != 0 {
		t.Fatal("lookup must not run without a selected game")
	}
	if f.msgr.lastText() != replySelectFirst {
		t.Errorf("expected select-first instruction, got %q", f.msgr.lastText())
	}
}

func TestInputBlockedUserNeverInvokesLookup(t *testing.T) {
	f := newRouterFixture()
	f.router.Select(context.Background(), 1, session.MessageRef{ChatID: 10, MessageID: 5}, "Valorant")
	f.checker.status = "kicked"

	f.router.Input(context.Background(), 1, 10, "12345")

	if len(f.lookup.calls()) != 0 {
		t.Fatal("lookup must not run for a blocked user")
	}
}

func TestInputEmptyTextIsValidationError(t *testing.T) {
	f := newRouterFixture()
	f.router.Select(context.Background(), 1, session.MessageRef{ChatID: 10, MessageID: 5}, "Valorant")

	f.router.Input(context.Background(), 1, 10, "   ")

	if len(f.lookup.calls()) != 0 {
		t.Fatal("lookup must not run without a player id")
	}
	if f.msgr.lastText() != replyInvalidID {
		t.Errorf("expected validation reply, got %q", f.msgr.lastText())
	}
}

func TestInputResolvesAndReplies(t *testing.T) {
	f := newRouterFixture()
	f.router.Select(context.Background(), 1, session.MessageRef{ChatID: 10, MessageID: 5}, "LifeAfter")

	f.router.Input(context.Background(), 1, 10, "12345 2001")

	calls := f.lookup.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one lookup call, got %d", len(calls))
	}
	if !strings.Contains(calls[0], "id=12345&server=2001") {
		t.Errorf("endpoint missing id/server substitution: %q", calls[0])
	}

	reply := f.msgr.lastText()
	for _, want := range []string{"✅ Success!", "Game: LifeAfter", "ID: 12345", "Server: 2001", "Name: Survivor"} {
		if !strings.Contains(reply, want) {
			t.Errorf("reply missing %q: %q", want, reply)
		}
	}
}

func TestInputSelectionPersistsAcrossLookups(t *testing.T) {
	f := newRouterFixture()
	f.router.Select(context.Background(), 1, session.MessageRef{ChatID: 10, MessageID: 5}, "Genshin Impact")

	f.router.Input(context.Background(), 1, 10, "700000000")
	f.router.Input(context.Background(), 1, 10, "800000000")

	calls := f.lookup.calls()
	if len(calls) != 2 {
		t.Fatalf("expected two lookup calls, got %d", len(calls))
	}
	if !strings.HasSuffix(calls[0], "/gi?id=700000000") || !strings.HasSuffix(calls[1], "/gi?id=800000000") {
		t.Errorf("selection should persist across lookups: %v", calls)
	}
}

func TestInputBusinessFailurePassesMessageThrough(t *testing.T) {
	f := newRouterFixture()
	f.lookup.result = lookup.Result{Message: "Player not found"}
	f.router.Select(context.Background(), 1, session.MessageRef{ChatID: 10, MessageID: 5}, "Valorant")

	f.router.Input(context.Background(), 1, 10, "12345")

	if f.msgr.lastText() != "❌ Error: Player not found" {
		t.Errorf("expected verbatim service message, got %q", f.msgr.lastText())
	}
}

func TestInputTransportFailureGetsGenericReply(t *testing.T) {
	f := newRouterFixture()
	f.lookup.result = lookup.Result{}
	f.router.Select(context.Background(), 1, session.MessageRef{ChatID: 10, MessageID: 5}, "Valorant")

	f.router.Input(context.Background(), 1, 10, "12345")

	if f.msgr.lastText() != replyLookupFailed {
		t.Errorf("expected generic failure reply, got %q", f.msgr.lastText())
	}
}

func TestHelpSkipsGating(t *testing.T) {
	f := newRouterFixture()
	f.checker.status = "left"

	f.router.Help(context.Background(), 10)

	if f.msgr.lastText() != replyHelp {
		t.Errorf("expected help text, got %q", f.msgr.lastText())
	}
	if len(f.msgr.prompts) != 0 {
		t.Error("/help must not trigger a join prompt")
	}
}

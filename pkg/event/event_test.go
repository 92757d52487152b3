package event

import "testing"

func TestEmitter_OnReceivesMatchingEvents(t *testing.T) {
	e := NewEmitter()

	var got []string
	e.On(GoalLogged, func(ev Event) {
		got = append(got, ev.EventName())
	})

	e.Emit(GoalLoggedEvent{UserID: "u1", GoalID: "g1", LogDate: "2026-09-01", Completed: true})
	e.Emit(ConfigChangedEvent{Keys: []string{"ai.provider"}})

	if len(got) != 1 || got[0] != GoalLogged {
		t.Fatalf("listener saw %v, want exactly one %q", got, GoalLogged)
	}
}

func TestEmitter_Unsubscribe(t *testing.T) {
	e := NewEmitter()

	calls := 0
	off := e.On(ChatTurnCompleted, func(Event) { calls++ })

	e.Emit(ChatTurnCompletedEvent{UserID: "u1", ConversationID: "c1"})
	off()
	e.Emit(ChatTurnCompletedEvent{UserID: "u1", ConversationID: "c1"})

	if calls != 1 {
		t.Fatalf("listener called %d times after unsubscribe, want 1", calls)
	}
}

func TestEmitter_OnAnySeesEverything(t *testing.T) {
	e := NewEmitter()

	calls := 0
	e.OnAny(func(Event) { calls++ })

	e.Emit(GoalCreatedEvent{UserID: "u1", GoalID: "g1"})
	e.Emit(ConversationSummaryUpdatedEvent{UserID: "u1", ConversationID: "c1"})

	if calls != 2 {
		t.Fatalf("wildcard listener called %d times, want 2", calls)
	}
}

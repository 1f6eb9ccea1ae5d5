package core

import "testing"

func TestNewEvent_Defaults(t *testing.T) {
	ev := NewEvent("sess-1", EventInterviewStarted, nil, nil)
	if ev.ID == "" || ev.OccurredAt.IsZero() {
		t.Fatalf("NewEvent did not initialize identity fields: %+v", ev)
	}
	if ev.SequenceNumber != 0 {
		t.Fatalf("unsequenced event must carry sequence 0, got %d", ev.SequenceNumber)
	}
	if ev.EventData == nil || ev.EventMetadata == nil {
		t.Fatal("nil payload maps should be replaced with empty maps")
	}
}

func TestEvent_Clone_Isolation(t *testing.T) {
	ev := NewEvent("sess-1", EventResponseScored, map[string]any{
		"question_number": 1,
		"scores":          map[string]any{"overall": 75.0},
	}, map[string]any{"strategy": "clarification"})

	clone := ev.Clone()
	clone.EventData["question_number"] = 99
	clone.EventData["scores"].(map[string]any)["overall"] = 1.0
	clone.EventMetadata["strategy"] = "challenge"

	if n, _ := ev.IntField("question_number"); n != 1 {
		t.Errorf("clone mutation leaked into original payload: %v", n)
	}
	if overall, _ := ev.ScoreField("overall"); overall != 75 {
		t.Errorf("clone mutation leaked into nested scores: %v", overall)
	}
	if ev.EventMetadata["strategy"] != "clarification" {
		t.Error("clone mutation leaked into metadata")
	}
}

func TestEvent_FieldAccessors(t *testing.T) {
	ev := NewEvent("sess-1", EventResponseScored, map[string]any{
		"question_number": float64(3), // JSON round-trips numbers as float64
		"answer_text":     "an answer",
		"scores":          map[string]any{"overall": 82.5, "depth": 70},
	}, nil)

	if n, ok := ev.IntField("question_number"); !ok || n != 3 {
		t.Errorf("IntField should accept float64 representation, got %d ok=%v", n, ok)
	}
	if s, ok := ev.StringField("answer_text"); !ok || s != "an answer" {
		t.Errorf("StringField mismatch: %q ok=%v", s, ok)
	}
	if v, ok := ev.ScoreField("overall"); !ok || v != 82.5 {
		t.Errorf("ScoreField overall mismatch: %v ok=%v", v, ok)
	}
	if v, ok := ev.ScoreField("depth"); !ok || v != 70 {
		t.Errorf("ScoreField should accept int representation: %v ok=%v", v, ok)
	}
	if _, ok := ev.ScoreField("accuracy"); ok {
		t.Error("missing score must report ok=false")
	}
	if _, ok := ev.StringField("question_number"); ok {
		t.Error("type mismatch must report ok=false")
	}
}

func TestNewID_Uniqueness(t *testing.T) {
	if NewID() == NewID() {
		t.Error("expected unique IDs")
	}
}

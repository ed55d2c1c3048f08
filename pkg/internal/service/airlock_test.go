package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yeisme/airvault/pkg/internal/types"
)

func TestParseEventType(t *testing.T) {
	for _, s := range []string{
		"REQUEST_SUBMITTED", "REQUEST_WITHDRAWN", "REQUEST_APPROVED",
		"REQUEST_RELEASED", "REQUEST_REJECTED", "REQUEST_UPDATED",
	} {
		if _, err := ParseEventType(s); err != nil {
			t.Errorf("ParseEventType(%q): %v", s, err)
		}
	}

	_, err := ParseEventType("REQUEST_EXPLODED")
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("unknown event type: got %v, want ErrInvalidEvent", err)
	}
}

func TestParseUpdateType(t *testing.T) {
	for _, s := range []string{
		"FILE_ADDED", "FILE_WITHDRAWN", "CONTEXT_EDITED", "CONTROLS_EDITED", "COMMENT_ADDED",
	} {
		if _, err := ParseUpdateType(s); err != nil {
			t.Errorf("ParseUpdateType(%q): %v", s, err)
		}
	}

	_, err := ParseUpdateType("METADATA_EDITED")
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("unknown update type: got %v, want ErrInvalidEvent", err)
	}
}

// 分发表是行为契约：表内顺序就是执行顺序，APPROVED 没有条目.
func TestDispatchTableContract(t *testing.T) {
	want := map[EventType][]string{
		EventRequestSubmitted: {"create_issue"},
		EventRequestWithdrawn: {"close_issue"},
		EventRequestReleased:  {"email_author", "close_issue"},
		EventRequestRejected:  {"email_author", "close_issue"},
		EventRequestUpdated:   {"email_author", "update_issue"},
	}

	if len(dispatchTable) != len(want) {
		t.Fatalf("dispatch table has %d entries, want %d", len(dispatchTable), len(want))
	}

	if _, ok := dispatchTable[EventRequestApproved]; ok {
		t.Fatal("REQUEST_APPROVED must not have handlers")
	}

	for et, names := range want {
		handlers := dispatchTable[et]
		if len(handlers) != len(names) {
			t.Fatalf("%s: %d handlers, want %d", et, len(handlers), len(names))
		}

		for i, h := range handlers {
			if h.name != names[i] {
				t.Errorf("%s handler %d = %q, want %q", et, i, h.name, names[i])
			}
		}
	}
}

func TestFromPayloadValidatesBeforeConstructing(t *testing.T) {
	svc := &AirlockService{newTestService(t)}
	ctx := context.Background()

	seedWorkspace(t, svc.Service, "study-a", 1)
	seedUser(t, svc.Service, "alice")

	base := func() *types.AirlockEventRequest {
		return &types.AirlockEventRequest{
			EventType:     "REQUEST_SUBMITTED",
			Workspace:     "study-a",
			Request:       "req-1",
			RequestAuthor: "alice",
			User:          "alice",
		}
	}

	t.Run("unknown event type", func(t *testing.T) {
		req := base()
		req.EventType = "NOPE"

		if _, err := svc.FromPayload(ctx, req); !errors.Is(err, ErrInvalidEvent) {
			t.Fatalf("got %v, want ErrInvalidEvent", err)
		}
	})

	t.Run("unknown update type", func(t *testing.T) {
		req := base()
		req.EventType = "REQUEST_UPDATED"
		bad := "NOPE"
		req.UpdateType = &bad

		if _, err := svc.FromPayload(ctx, req); !errors.Is(err, ErrInvalidEvent) {
			t.Fatalf("got %v, want ErrInvalidEvent", err)
		}
	})

	t.Run("unknown workspace", func(t *testing.T) {
		req := base()
		req.Workspace = "missing"

		if _, err := svc.FromPayload(ctx, req); !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		req := base()
		req.User = "mallory"

		if _, err := svc.FromPayload(ctx, req); !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		ev, err := svc.FromPayload(ctx, base())
		if err != nil {
			t.Fatalf("FromPayload: %v", err)
		}

		if ev.Type != EventRequestSubmitted || ev.RequestID != "req-1" {
			t.Errorf("unexpected event: %+v", ev)
		}
	})
}

// user 与 request_author 同名时只解析一次，两个字段复用同一个对象.
func TestFromPayloadReusesAuthorLookup(t *testing.T) {
	svc := &AirlockService{newTestService(t)}
	ctx := context.Background()

	seedWorkspace(t, svc.Service, "study-a", 1)
	seedUser(t, svc.Service, "alice")
	seedUser(t, svc.Service, "bob")

	same, err := svc.FromPayload(ctx, &types.AirlockEventRequest{
		EventType:     "REQUEST_SUBMITTED",
		Workspace:     "study-a",
		Request:       "req-1",
		RequestAuthor: "alice",
		User:          "alice",
	})
	if err != nil {
		t.Fatalf("FromPayload: %v", err)
	}

	if same.User != same.RequestAuthor {
		t.Error("same username should share one resolved user")
	}

	distinct, err := svc.FromPayload(ctx, &types.AirlockEventRequest{
		EventType:     "REQUEST_SUBMITTED",
		Workspace:     "study-a",
		Request:       "req-2",
		RequestAuthor: "alice",
		User:          "bob",
	})
	if err != nil {
		t.Fatalf("FromPayload: %v", err)
	}

	if distinct.User == distinct.RequestAuthor {
		t.Error("distinct usernames must resolve separately")
	}

	if distinct.User.Username != "bob" || distinct.RequestAuthor.Username != "alice" {
		t.Errorf("got user=%s author=%s", distinct.User.Username, distinct.RequestAuthor.Username)
	}
}

// 表中没有条目的事件类型是合法的无操作；未配置 MQ 时所有 handler 降级为空操作.
func TestHandleEventWithoutPublisher(t *testing.T) {
	svc := &AirlockService{newTestService(t)}
	ctx := context.Background()

	seedWorkspace(t, svc.Service, "study-a", 1)
	seedUser(t, svc.Service, "alice")

	for _, et := range []string{
		"REQUEST_SUBMITTED", "REQUEST_WITHDRAWN", "REQUEST_APPROVED",
		"REQUEST_RELEASED", "REQUEST_REJECTED", "REQUEST_UPDATED",
	} {
		err := svc.HandleEvent(ctx, &types.AirlockEventRequest{
			EventType:     et,
			Workspace:     "study-a",
			Request:       "req-1",
			RequestAuthor: "alice",
			User:          "alice",
		})
		if err != nil {
			t.Errorf("HandleEvent(%s): %v", et, err)
		}
	}
}

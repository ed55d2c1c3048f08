package queue_test

import (
	"testing"
	"time"

	"github.com/yeisme/airvault/pkg/queue"
)

func TestWatermillMessageEnvelope(t *testing.T) {
	payload := queue.IssuePayload{
		Request: queue.RequestRef{
			RequestID:     "req-1",
			Workspace:     "study-a",
			RequestAuthor: "alice",
			User:          "bob",
		},
		UpdateKinds: []string{"FILE_ADDED"},
	}

	msg, err := queue.NewWatermillMessage(queue.TopicNotifyIssueUpdate, payload,
		queue.WithTraceID("trace-1"), queue.WithProducer("airvault"))
	if err != nil {
		t.Fatalf("NewWatermillMessage: %v", err)
	}

	if got := msg.Metadata.Get("topic"); got != queue.TopicNotifyIssueUpdate {
		t.Errorf("metadata topic = %q", got)
	}

	if got := msg.Metadata.Get("producer"); got != "airvault" {
		t.Errorf("metadata producer = %q", got)
	}

	env, err := queue.ParseIssue(msg)
	if err != nil {
		t.Fatalf("ParseIssue: %v", err)
	}

	if env.Header.Topic != queue.TopicNotifyIssueUpdate {
		t.Errorf("header topic = %q", env.Header.Topic)
	}

	if env.Header.Version != queue.PayloadVersionV1 {
		t.Errorf("header version = %q", env.Header.Version)
	}

	if env.Header.TraceID != "trace-1" {
		t.Errorf("header trace id = %q", env.Header.TraceID)
	}

	if time.Since(env.Header.OccurredAt) > time.Minute {
		t.Errorf("occurred_at looks stale: %v", env.Header.OccurredAt)
	}

	if env.Payload.Request != payload.Request {
		t.Errorf("payload request = %+v, want %+v", env.Payload.Request, payload.Request)
	}

	if len(env.Payload.UpdateKinds) != 1 || env.Payload.UpdateKinds[0] != "FILE_ADDED" {
		t.Errorf("payload update kinds = %v", env.Payload.UpdateKinds)
	}
}

func TestSnapshotEnvelope(t *testing.T) {
	now := time.Now().UTC()
	payload := queue.SnapshotPayload{
		SnapshotID:  "7",
		Files:       []string{"01HZX0000000000000000000F1"},
		PublishedBy: "dave",
		PublishedAt: &now,
	}

	msg, err := queue.NewWatermillMessage(queue.TopicSnapshotPublished, payload,
		queue.WithProducer("airvault"))
	if err != nil {
		t.Fatalf("NewWatermillMessage: %v", err)
	}

	env, err := queue.ParseWatermillMessage[queue.SnapshotPayload](msg)
	if err != nil {
		t.Fatalf("ParseWatermillMessage: %v", err)
	}

	if env.Payload.SnapshotID != "7" || env.Payload.PublishedBy != "dave" {
		t.Errorf("payload = %+v", env.Payload)
	}

	if env.Payload.PublishedAt == nil || !env.Payload.PublishedAt.Equal(now) {
		t.Errorf("published_at = %v, want %v", env.Payload.PublishedAt, now)
	}
}

package irisfast

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeReply struct {
	sent []ReplyRequest
	err  error
}

func (f *fakeReply) Reply(_ context.Context, req ReplyRequest) error {
	f.sent = append(f.sent, req)
	return f.err
}

type fakeFrames struct {
	connected bool
	frames    []ReplyRequest
	err       error
}

func (f *fakeFrames) Connected() bool { return f.connected }

func (f *fakeFrames) WriteJSON(_ context.Context, v any) error {
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, *v.(*ReplyRequest))
	return nil
}

func TestEgressAutoPrefersWebSocket(t *testing.T) {
	hs := &fakeReply{}
	fw := &fakeFrames{connected: true}
	e, err := newEgress("auto", false, hs, fw, nil)
	if err != nil {
		t.Fatalf("newEgress: %v", err)
	}
	if err := e.SendText(context.Background(), "r", "hi"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if len(fw.frames) != 1 || len(hs.sent) != 0 {
		t.Fatalf("frames=%d http=%d", len(fw.frames), len(hs.sent))
	}
}

func TestEgressAutoFallsBackToHTTP(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	hs := &fakeReply{}
	fw := &fakeFrames{connected: true, err: errors.New("broken pipe")}
	e, _ := newEgress("auto", false, hs, fw, zap.New(core))

	if err := e.SendImage(context.Background(), "r", "aGk="); err != nil {
		t.Fatalf("SendImage: %v", err)
	}
	if len(hs.sent) != 1 || hs.sent[0].Type != "image" {
		t.Fatalf("http sent = %+v", hs.sent)
	}
	if logs.FilterMessage("egress_fallback").Len() != 1 {
		t.Fatalf("fallback not logged")
	}
}

func TestEgressAutoSkipsDisconnectedWebSocket(t *testing.T) {
	hs := &fakeReply{}
	fw := &fakeFrames{}
	e, _ := newEgress("", false, hs, fw, nil)
	if err := e.SendText(context.Background(), "r", "hi"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if len(hs.sent) != 1 {
		t.Fatalf("http sent = %d", len(hs.sent))
	}
}

func TestEgressWSModeDoesNotFallBack(t *testing.T) {
	hs := &fakeReply{}
	fw := &fakeFrames{connected: true, err: ErrNotConnected}
	e, _ := newEgress("ws", false, hs, fw, nil)
	if err := e.SendText(context.Background(), "r", "hi"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v", err)
	}
	if len(hs.sent) != 0 {
		t.Fatalf("http used in ws mode")
	}
}

func TestEgressDryRunLogsOnly(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	hs := &fakeReply{}
	e, err := newEgress("http", true, hs, nil, zap.New(core))
	if err != nil {
		t.Fatalf("newEgress: %v", err)
	}
	if err := e.SendText(context.Background(), "r", "hello"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if len(hs.sent) != 0 {
		t.Fatalf("dryrun delivered a reply")
	}
	entries := logs.FilterMessage("egress_dryrun").All()
	if len(entries) != 1 || entries[0].ContextMap()["bytes"] != int64(5) {
		t.Fatalf("dryrun log = %+v", entries)
	}
}

func TestNewEgressValidation(t *testing.T) {
	if _, err := newEgress("http", false, nil, nil, nil); !errors.Is(err, ErrEgressUnavailable) {
		t.Fatalf("http without client: %v", err)
	}
	if _, err := newEgress("carrier-pigeon", false, &fakeReply{}, nil, nil); err == nil {
		t.Fatalf("unknown mode accepted")
	}
	if _, err := NewEgress("auto", false, nil, nil, nil); !errors.Is(err, ErrEgressUnavailable) {
		t.Fatalf("auto without transports: %v", err)
	}
}

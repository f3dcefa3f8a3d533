package logsink

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	ierrors "github.com/iamwavecut/ngmod/internal/errors"
)

type channelsStub struct {
	byName  map[string]string
	sendErr error

	mu   sync.Mutex
	sent map[string]string
}

func (c *channelsStub) TextChannelByName(_ context.Context, _ string, names []string) (string, error) {
	for _, name := range names {
		if id, ok := c.byName[name]; ok {
			return id, nil
		}
	}
	return "", ierrors.ErrNotFound
}

func (c *channelsStub) SendMessage(_ context.Context, channelID, text string) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sent == nil {
		c.sent = map[string]string{}
	}
	c.sent[channelID] = text
	return nil
}

func (c *channelsStub) sentTo() []string {
	ids := make([]string, 0, len(c.sent))
	for id := range c.sent {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var (
	logNames     = []string{"role log", "role-log"}
	historyNames = []string{"role history", "role-history"}
)

func TestSinkSendsToBothChannels(t *testing.T) {
	t.Parallel()

	stub := &channelsStub{byName: map[string]string{"role-log": "1", "role history": "2"}}
	sink := New(stub, logNames, historyNames)

	if err := sink.Send(context.Background(), Record{GuildID: "g", Text: "line"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := stub.sentTo(); len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("unexpected targets: %v", got)
	}
	if stub.sent["1"] != "line" {
		t.Fatalf("unexpected text: %q", stub.sent["1"])
	}
}

func TestSinkSkipsMissingChannels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		byName map[string]string
		want   int
	}{
		{name: "none", byName: map[string]string{}, want: 0},
		{name: "log-only", byName: map[string]string{"role log": "1"}, want: 1},
		{name: "history-only", byName: map[string]string{"role-history": "2"}, want: 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stub := &channelsStub{byName: tt.byName}
			if err := New(stub, logNames, historyNames).Send(context.Background(), Record{GuildID: "g", Text: "x"}); err != nil {
				t.Fatalf("missing channels must not fail: %v", err)
			}
			if len(stub.sent) != tt.want {
				t.Fatalf("expected %d sends, got %v", tt.want, stub.sent)
			}
		})
	}
}

func TestSinkDeduplicatesSharedChannel(t *testing.T) {
	t.Parallel()

	stub := &channelsStub{byName: map[string]string{"audit": "1"}}
	sink := New(stub, []string{"audit"}, []string{"audit"})
	if err := sink.Send(context.Background(), Record{GuildID: "g", Text: "x"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(stub.sent) != 1 {
		t.Fatalf("expected a single send, got %v", stub.sent)
	}
}

func TestSinkReportsSendFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	stub := &channelsStub{byName: map[string]string{"role log": "1"}, sendErr: boom}
	err := New(stub, logNames, historyNames).Send(context.Background(), Record{GuildID: "g", Text: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected send error, got %v", err)
	}
}

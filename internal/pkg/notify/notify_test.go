package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/trace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	subject string
	data    [][]byte
	err     error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = append(f.data, data)
	return f.err
}

func TestFanoutDeliversToAll(t *testing.T) {
	a, b := NewQueue(4), NewQueue(4)
	Fanout{a, nil, b}.Notify(context.Background(), New(SeveritySuccess, "ok"))

	la, ok := a.Latest()
	require.True(t, ok)
	assert.Equal(t, "ok", la.Message)
	assert.Len(t, b.All(), 1)
}

func TestQueueKeepsLimit(t *testing.T) {
	q := NewQueue(2)
	for _, m := range []string{"1", "2", "3"} {
		q.Notify(context.Background(), New(SeverityInfo, m))
	}
	all := q.All()
	require.Len(t, all, 2)
	assert.Equal(t, "2", all[0].Message)
	assert.Equal(t, "3", all[1].Message)

	q.Clear()
	_, ok := q.Latest()
	assert.False(t, ok)
}

func TestNatsPublisher_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	p := NewNatsPublisher(pub, "", nil, log.Discard())

	ctx := trace.WithTraceID(context.Background(), "abc")
	p.Notify(ctx, New(SeverityError, "boom"))

	require.Len(t, pub.data, 1)
	assert.Equal(t, DefaultSubject, pub.subject)

	var got map[string]any
	require.NoError(t, json.Unmarshal(pub.data[0], &got))
	assert.Equal(t, "error", got["severity"])
	assert.Equal(t, "boom", got["message"])
	assert.Equal(t, "abc", got["trace_id"])
}

func TestNatsPublisher_SilentDegrade(t *testing.T) {
	var p *NatsPublisher
	assert.NoError(t, p.Publish(context.Background(), New(SeverityInfo, "x")))

	none := NewNatsPublisher(nil, "s", nil, log.Discard())
	assert.NoError(t, none.Publish(context.Background(), New(SeverityInfo, "x")))

	pub := &fakePublisher{}
	unhealthy := NewNatsPublisher(pub, "s", func() bool { return false }, log.Discard())
	assert.NoError(t, unhealthy.Publish(context.Background(), New(SeverityInfo, "x")))
	assert.Empty(t, pub.data)
}

func TestNatsPublisher_ErrorIsSwallowedByNotify(t *testing.T) {
	pub := &fakePublisher{err: errors.New("down")}
	p := NewNatsPublisher(pub, "s", nil, log.Discard())

	assert.Error(t, p.Publish(context.Background(), New(SeverityInfo, "x")))
	assert.NotPanics(t, func() { p.Notify(context.Background(), New(SeverityInfo, "x")) })
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []published
	publishErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func sampleEvent() EntryRecorded {
	return EntryRecorded{
		EntryID:    "2b0f6a0c-0000-5000-8000-000000000001",
		Email:      "worker@example.com",
		Date:       "2024-01-15",
		WeekNumber: 3,
		TotalHours: 10,
		LegalHours: 5,
		CashHours:  5,
		LegalPay:   100,
		CashPay:    75,
		RecordedAt: time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC),
	}
}

func TestAMQPPublisher_PublishesPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newAMQPPublisher(ch, "ledger", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ledger:topic"}, ch.declared)

	require.NoError(t, p.EntryRecorded(context.Background(), sampleEvent()))
	require.Len(t, ch.published, 1)

	got := ch.published[0]
	assert.Equal(t, "ledger", got.exchange)
	assert.Equal(t, RoutingKeyEntryRecorded, got.key)
	assert.Equal(t, amqp091.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, sampleEvent().EntryID, got.msg.MessageId)

	var decoded EntryRecorded
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, sampleEvent(), decoded)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_PublishErrorIsReturned(t *testing.T) {
	ch := &fakeChannel{publishErr: amqp091.ErrClosed}
	p, err := newAMQPPublisher(ch, "ledger", nil)
	require.NoError(t, err)

	err = p.EntryRecorded(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, amqp091.ErrClosed)
}

func TestMulti_NotifiesAllAndJoinsErrors(t *testing.T) {
	var calls int
	count := ObserverFunc(func(context.Context, EntryRecorded) error {
		calls++
		return nil
	})
	boom := errors.New("boom")
	failing := ObserverFunc(func(context.Context, EntryRecorded) error { return boom })

	err := Multi(count, failing, nil, NoopObserver{}, count).EntryRecorded(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

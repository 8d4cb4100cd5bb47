package mailbox

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailbox_PreservesOrder(t *testing.T) {
	m := New[int]()
	for i := range 100 {
		require.NoError(t, m.Send(i))
	}

	for i := range 100 {
		v, ok := m.TryReceive()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}

	_, ok := m.TryReceive()
	assert.False(t, ok)
}

func TestMailbox_SendAfterClose(t *testing.T) {
	m := New[string]()
	require.NoError(t, m.Send("a"))
	m.Close()

	assert.ErrorIs(t, m.Send("b"), ErrClosed)

	// Items queued before close remain receivable.
	v, ok := m.Receive(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = m.Receive(context.Background())
	assert.False(t, ok)
}

func TestMailbox_ReceiveWaitsForSend(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m := New[int]()
		got := make(chan int, 1)

		go func() {
			v, _ := m.Receive(context.Background())
			got <- v
		}()

		synctest.Wait()
		select {
		case <-got:
			t.Fatal("Receive returned before any Send")
		default:
		}

		require.NoError(t, m.Send(42))
		assert.Equal(t, 42, <-got)
	})
}

func TestMailbox_ReceiveCancelled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m := New[int]()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan bool, 1)

		go func() {
			_, ok := m.Receive(ctx)
			done <- ok
		}()

		synctest.Wait()
		cancel()
		assert.False(t, <-done)
	})
}

func TestMailbox_CloseWakesReceiver(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m := New[int]()
		done := make(chan bool, 1)

		go func() {
			_, ok := m.Receive(context.Background())
			done <- ok
		}()

		synctest.Wait()
		m.Close()
		assert.False(t, <-done)
	})
}

func TestMailbox_ConcurrentSenders(t *testing.T) {
	m := New[int]()
	const senders, perSender = 8, 250

	var wg sync.WaitGroup
	for s := range senders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perSender {
				_ = m.Send(s*perSender + i)
			}
		}()
	}
	wg.Wait()

	items := m.Drain()
	assert.Len(t, items, senders*perSender)
	assert.Equal(t, 0, m.Len())

	// Each sender's own values stay in send order.
	last := make(map[int]int)
	for _, v := range items {
		s := v / perSender
		if prev, ok := last[s]; ok && v < prev {
			t.Errorf("sender %d: %d received after %d", s, v, prev)
		}
		last[s] = v
	}
}

func TestMailbox_ReadySignalsPendingItems(t *testing.T) {
	m := New[int]()
	_ = m.Send(1)
	_ = m.Send(2)

	<-m.Ready()
	v, ok := m.TryReceive()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// A second item is still queued, so Ready fires again.
	select {
	case <-m.Ready():
	default:
		t.Fatal("Ready not signalled while items remain")
	}
}

// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package event_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/blinklabs-io/govern/event"
)

const testEvtType event.EventType = "test.event"

func receive(t *testing.T, ch <-chan event.Event) event.Event {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "event channel closed unexpectedly")
		return evt
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
	return event.Event{}
}

func TestEventBusSingleSubscriber(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Close()
	_, subCh := eb.Subscribe(testEvtType)
	eb.Publish(testEvtType, event.NewEvent(testEvtType, 999))
	evt := receive(t, subCh)
	assert.Equal(t, 999, evt.Data)
	assert.Equal(t, testEvtType, evt.Type)
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Close()
	_, sub1Ch := eb.Subscribe(testEvtType)
	_, sub2Ch := eb.Subscribe(testEvtType)
	eb.Publish(testEvtType, event.NewEvent(testEvtType, "hello"))
	assert.Equal(t, "hello", receive(t, sub1Ch).Data)
	assert.Equal(t, "hello", receive(t, sub2Ch).Data)
}

func TestEventBusWildcardSubscriber(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Close()
	_, allCh := eb.Subscribe(event.AllEventsType)
	eb.Publish("a.one", event.NewEvent("a.one", 1))
	eb.Publish("b.two", event.NewEvent("b.two", 2))
	assert.Equal(t, event.EventType("a.one"), receive(t, allCh).Type)
	assert.Equal(t, event.EventType("b.two"), receive(t, allCh).Type)
}

func TestEventBusUnsubscribe(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Close()
	subId, subCh := eb.Subscribe(testEvtType)
	eb.Unsubscribe(testEvtType, subId)
	eb.Publish(testEvtType, event.NewEvent(testEvtType, 1))
	select {
	case _, ok := <-subCh:
		require.False(t, ok, "received unexpected event")
	case <-time.After(time.Second):
		t.Fatal("subscriber channel was not closed after Unsubscribe")
	}
}

func TestEventBusPublishAsync(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Close()
	_, subCh := eb.Subscribe(testEvtType)
	require.True(t, eb.PublishAsync(testEvtType, event.NewEvent(testEvtType, "async")))
	assert.Equal(t, "async", receive(t, subCh).Data)
}

func TestEventBusHandlerPanicRecovery(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Close()
	var received atomic.Int32
	eb.SubscribeFunc(testEvtType, func(evt event.Event) {
		if received.Add(1) == 1 {
			panic("intentional test panic")
		}
	})
	eb.Publish(testEvtType, event.NewEvent(testEvtType, "panic"))
	eb.Publish(testEvtType, event.NewEvent(testEvtType, "after-panic"))
	require.Eventually(t, func() bool {
		return received.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEventBusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	eb := event.NewEventBus(reg, nil)
	defer eb.Close()
	_, subCh := eb.Subscribe(testEvtType)
	eb.Publish(testEvtType, event.NewEvent(testEvtType, 1))
	receive(t, subCh)
	count, err := testutil.GatherAndCount(reg, "govern_event_published_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEventBusStopReuse(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Close()
	_, oldCh := eb.Subscribe(testEvtType)
	eb.Stop()
	_, ok := <-oldCh
	assert.False(t, ok)
	_, newCh := eb.Subscribe(testEvtType)
	require.True(t, eb.PublishAsync(testEvtType, event.NewEvent(testEvtType, "again")))
	assert.Equal(t, "again", receive(t, newCh).Data)
}

func TestEventBusCloseNoLeak(t *testing.T) {
	defer goleak.VerifyNone(t)
	eb := event.NewEventBus(nil, nil)
	done := make(chan struct{})
	eb.SubscribeFunc(testEvtType, func(event.Event) {
		close(done)
	})
	eb.Publish(testEvtType, event.NewEvent(testEvtType, "before"))
	<-done
	eb.Close()
	assert.False(t, eb.PublishAsync(testEvtType, event.NewEvent(testEvtType, "after")))
}

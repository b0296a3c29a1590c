// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/taibuivan/truyennet/internal/library"
)

/*
TestEvents_PublishedAfterWrites checks family and op of write notifications.
*/
func TestEvents_PublishedAfterWrites(t *testing.T) {
	lib, _, _ := newLibrary(t)
	ctx := context.Background()

	events, unsubscribe := lib.Events().Subscribe(16)
	defer unsubscribe()

	require.NoError(t, lib.Favorites.Add(ctx, library.Favorite{ComicSlug: "a"}))
	_, err := lib.Favorites.Remove(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, lib.History.Clear(ctx))
	_, err = lib.Preferences.Patch(ctx, library.PreferencesPatch{})
	require.NoError(t, err)

	want := []library.Event{
		{Family: library.FamilyFavorites, Op: library.OpUpsert},
		{Family: library.FamilyFavorites, Op: library.OpRemove},
		{Family: library.FamilyHistory, Op: library.OpClear},
		{Family: library.FamilyPreferences, Op: library.OpUpsert},
	}
	for _, expected := range want {
		got := <-events
		assert.Equal(t, expected.Family, got.Family)
		assert.Equal(t, expected.Op, got.Op)
		assert.False(t, got.At.IsZero())
	}
}

/*
TestBroker_SlowSubscriberDropsEvents ensures Publish never blocks.
*/
func TestBroker_SlowSubscriberDropsEvents(t *testing.T) {
	broker := library.NewBroker()
	events, unsubscribe := broker.Subscribe(1)
	defer unsubscribe()

	for range 5 {
		broker.Publish(library.Event{Family: library.FamilyBookmarks, Op: library.OpUpsert})
	}

	assert.Len(t, events, 1)
}

/*
TestBroker_UnsubscribeAndClose verifies channels close and no goroutine leaks.
*/
func TestBroker_UnsubscribeAndClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	broker := library.NewBroker()

	var wg sync.WaitGroup
	received := make([]int, 3)
	unsubscribes := make([]func(), 3)
	for i := range 3 {
		events, unsubscribe := broker.Subscribe(8)
		unsubscribes[i] = unsubscribe
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range events {
				received[i]++
			}
		}()
	}
	assert.Equal(t, 3, broker.Subscribers())

	broker.Publish(library.Event{Family: library.FamilyHistory, Op: library.OpUpsert})

	unsubscribes[0]()
	unsubscribes[0]()
	assert.Equal(t, 2, broker.Subscribers())

	broker.Close()
	wg.Wait()

	assert.Equal(t, []int{1, 1, 1}, received)
	assert.Equal(t, 0, broker.Subscribers())

	late, _ := broker.Subscribe(1)
	_, open := <-late
	assert.False(t, open)
}

package kv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSet(t *testing.T) {
	s := New[string, int]()

	s.Set("foo", 42)
	val, ok := s.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, 42, val)

	_, ok = s.Get("bar")
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	s := New[string, string]()
	s.Set("key", "value")

	s.Delete("key")

	_, ok := s.Get("key")
	assert.False(t, ok)
}

func TestStore_Update(t *testing.T) {
	s := New[string, []string]()

	got := s.Update("doc", func(cur []string, ok bool) []string {
		assert.False(t, ok)
		return append(cur, "items")
	})
	assert.Equal(t, []string{"items"}, got)

	got = s.Update("doc", func(cur []string, ok bool) []string {
		assert.True(t, ok)
		return append(cur, "schedule")
	})
	assert.Equal(t, []string{"items", "schedule"}, got)
}

func TestStore_Keys(t *testing.T) {
	s := New[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)

	keys := s.Keys()
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "a")
	assert.Contains(t, keys, "b")
}

func TestStore_ConcurrentUpdate(t *testing.T) {
	s := New[string, int]()
	var wg sync.WaitGroup

	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update("n", func(cur int, _ bool) int { return cur + 1 })
		}()
	}

	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Get("n")
		}()
	}

	wg.Wait()

	v, _ := s.Get("n")
	assert.Equal(t, 100, v)
	assert.Equal(t, 1, s.Len())
}

package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/store"
	"github.com/MrSnakeDoc/shelf/internal/store/memory"
)

var defaultUsers = []string{"1", "2", "3", "4", "5"}

func newTestStorage(t *testing.T) (*Storage, *memory.Store) {
	t.Helper()
	kv := memory.New()
	return NewStorage(kv, defaultUsers, logger.Nop()), kv
}

func ts(minute int) time.Time {
	return time.Date(2024, 5, 1, 10, minute, 0, 0, time.UTC)
}

func TestGetDataForNewUserIsAbsent(t *testing.T) {
	s, _ := newTestStorage(t)

	list, ok, err := s.GetData(context.Background(), "newUser")
	if err != nil {
		t.Fatalf("GetData() error = %v", err)
	}
	if ok {
		t.Errorf("GetData() ok = true, want absent (got %v)", list)
	}
	if list != nil {
		t.Errorf("GetData() list = %v, want nil", list)
	}
}

func TestStoreAndRetrieveSingleBookmark(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	bookmark := domain.Bookmark{
		URL:         "https://example.com",
		Title:       "Example",
		Description: "An example site",
		CreatedAt:   ts(0),
	}

	if err := s.SetData(ctx, "1", []domain.Bookmark{bookmark}); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}

	got, ok, err := s.GetData(ctx, "1")
	if err != nil || !ok {
		t.Fatalf("GetData() ok = %v, err = %v", ok, err)
	}
	if !reflect.DeepEqual(got, []domain.Bookmark{bookmark}) {
		t.Errorf("GetData() = %+v, want %+v", got, bookmark)
	}
}

func TestSetDataOverwrites(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	first := []domain.Bookmark{{URL: "https://first.com", Title: "First", Description: "desc", CreatedAt: ts(1)}}
	second := []domain.Bookmark{{URL: "https://second.com", Title: "Second", Description: "desc", CreatedAt: ts(2)}}

	if err := s.SetData(ctx, "2", first); err != nil {
		t.Fatalf("SetData(first) error = %v", err)
	}
	if err := s.SetData(ctx, "2", second); err != nil {
		t.Fatalf("SetData(second) error = %v", err)
	}

	got, ok, err := s.GetData(ctx, "2")
	if err != nil || !ok {
		t.Fatalf("GetData() ok = %v, err = %v", ok, err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Errorf("GetData() = %+v, want only %+v", got, second)
	}
}

func TestClearData(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	bookmark := domain.Bookmark{URL: "https://clearme.com", Title: "To be cleared", Description: "Temporary", CreatedAt: ts(3)}
	if err := s.SetData(ctx, "1", []domain.Bookmark{bookmark}); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if err := s.ClearData(ctx, "1"); err != nil {
		t.Fatalf("ClearData() error = %v", err)
	}

	if _, ok, err := s.GetData(ctx, "1"); err != nil || ok {
		t.Errorf("GetData() after clear = ok %v, err %v; want absent", ok, err)
	}
}

func TestClearDataIsIdempotent(t *testing.T) {
	s, _ := newTestStorage(t)

	for i := 0; i < 2; i++ {
		if err := s.ClearData(context.Background(), "never-written"); err != nil {
			t.Fatalf("ClearData() #%d error = %v", i+1, err)
		}
	}
}

func TestEmptyListIsNotAbsent(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStorage(t)

	if err := s.SetData(ctx, "3", nil); err != nil {
		t.Fatalf("SetData(nil) error = %v", err)
	}

	raw, _, _ := kv.Get(ctx, "3")
	if raw != "[]" {
		t.Errorf("stored value = %q, want []", raw)
	}

	got, ok, err := s.GetData(ctx, "3")
	if err != nil {
		t.Fatalf("GetData() error = %v", err)
	}
	if !ok {
		t.Fatal("GetData() reported absent for a list set to empty")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("GetData() = %#v, want empty non-nil list", got)
	}
}

func TestStoredOrderIsPreserved(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	list := []domain.Bookmark{
		{Title: "newest", CreatedAt: ts(9)},
		{Title: "oldest", CreatedAt: ts(1)},
		{Title: "middle", CreatedAt: ts(5)},
	}
	_ = s.SetData(ctx, "4", list)

	got, _, _ := s.GetData(ctx, "4")
	for i := range list {
		if got[i].Title != list[i].Title {
			t.Errorf("got[%d] = %v, want %v", i, got[i].Title, list[i].Title)
		}
	}
}

func TestMalformedDataFailsLoudly(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{definitely not json"},
		{name: "object instead of list", raw: `{"url":"https://example.com"}`},
		{name: "bad timestamp", raw: `[{"url":"u","title":"t","description":"d","createdAt":"yesterday"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, kv := newTestStorage(t)
			_ = kv.Set(ctx, "5", tt.raw)

			_, ok, err := s.GetData(ctx, "5")
			if !errors.Is(err, ErrMalformedData) {
				t.Errorf("GetData() error = %v, want ErrMalformedData", err)
			}
			if ok {
				t.Error("GetData() ok = true for malformed data")
			}
		})
	}
}

func TestJSONNullReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStorage(t)
	_ = kv.Set(ctx, "1", "null")

	if _, ok, err := s.GetData(ctx, "1"); err != nil || ok {
		t.Errorf("GetData() = ok %v, err %v; want absent", ok, err)
	}
}

func TestSerializedShape(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStorage(t)

	created := time.Date(2024, 5, 1, 10, 0, 0, 123000000, time.UTC)
	_ = s.SetData(ctx, "1", []domain.Bookmark{{URL: "u", Title: "t", Description: "d", CreatedAt: created}})

	raw, _, _ := kv.Get(ctx, "1")
	want := `[{"url":"u","title":"t","description":"d","createdAt":"2024-05-01T10:00:00.123Z"}]`
	if raw != want {
		t.Errorf("stored value = %s, want %s", raw, want)
	}
}

func TestGetUserIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	_ = s.SetData(ctx, "3", []domain.Bookmark{{Title: "x", CreatedAt: ts(0)}})
	_ = s.SetData(ctx, "someone-else", []domain.Bookmark{{Title: "y", CreatedAt: ts(0)}})

	got := s.GetUserIDs()
	if !reflect.DeepEqual(got, defaultUsers) {
		t.Errorf("GetUserIDs() = %v, want %v", got, defaultUsers)
	}

	// Callers cannot mutate the configured list
	got[0] = "mutated"
	if s.GetUserIDs()[0] != "1" {
		t.Error("GetUserIDs() exposes internal state")
	}
}

func TestGetUserIDsWithSyntheticSet(t *testing.T) {
	s := NewStorage(memory.New(), []string{"alice", "bob"}, logger.Nop())

	if got := s.GetUserIDs(); !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Errorf("GetUserIDs() = %v", got)
	}
	if !s.IsKnownUser("bob") || s.IsKnownUser("carol") {
		t.Error("IsKnownUser() does not match the configured set")
	}
}

// slowKV has no atomic update and pauses on reads, like a remote backend.
type slowKV struct {
	kv    *memory.Store
	delay time.Duration
}

func (s *slowKV) Get(ctx context.Context, key string) (string, bool, error) {
	time.Sleep(s.delay)
	return s.kv.Get(ctx, key)
}

func (s *slowKV) Set(ctx context.Context, key, value string) error { return s.kv.Set(ctx, key, value) }
func (s *slowKV) Remove(ctx context.Context, key string) error     { return s.kv.Remove(ctx, key) }
func (s *slowKV) Ping(ctx context.Context) error                   { return nil }
func (s *slowKV) Close() error                                     { return nil }

func TestUpdateAbsentStartsFromNil(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	written, err := s.Update(ctx, "1", func(current []domain.Bookmark) []domain.Bookmark {
		if current != nil {
			t.Errorf("current = %v, want nil for absent list", current)
		}
		return domain.Append(current, domain.Bookmark{Title: "first", CreatedAt: ts(0)})
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("Update() wrote %v", written)
	}

	got, ok, _ := s.GetData(ctx, "1")
	if !ok || !reflect.DeepEqual(got, written) {
		t.Errorf("GetData() = %v, %v; want %v", got, ok, written)
	}
}

func TestUpdateMalformedLeavesDataUntouched(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStorage(t)
	_ = kv.Set(ctx, "1", "{broken")

	called := false
	_, err := s.Update(ctx, "1", func(current []domain.Bookmark) []domain.Bookmark {
		called = true
		return current
	})
	if !errors.Is(err, ErrMalformedData) {
		t.Fatalf("Update() error = %v, want ErrMalformedData", err)
	}
	if called {
		t.Error("Update() ran fn over malformed data")
	}
	if raw, _, _ := kv.Get(ctx, "1"); raw != "{broken" {
		t.Errorf("stored value = %q, want it untouched", raw)
	}
}

func TestConcurrentUpdatesKeepEveryAppend(t *testing.T) {
	tests := []struct {
		name string
		kv   store.KV
	}{
		{name: "atomic substrate", kv: memory.New()},
		{name: "plain substrate", kv: &slowKV{kv: memory.New(), delay: time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := NewStorage(tt.kv, defaultUsers, logger.Nop())

			const writers = 50
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					b := domain.Bookmark{Title: fmt.Sprintf("b%d", n), CreatedAt: ts(0)}
					if _, err := s.Update(ctx, "1", func(current []domain.Bookmark) []domain.Bookmark {
						return domain.Append(current, b)
					}); err != nil {
						t.Errorf("Update() error = %v", err)
					}
				}(i)
			}
			wg.Wait()

			got, _, err := s.GetData(ctx, "1")
			if err != nil {
				t.Fatalf("GetData() error = %v", err)
			}
			if len(got) != writers {
				t.Errorf("stored %d bookmarks, want %d", len(got), writers)
			}
			if n := s.locks.size(); n != 0 {
				t.Errorf("%d user locks left after all updates returned", n)
			}
		})
	}
}

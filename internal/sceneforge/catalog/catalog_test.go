package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	data  []byte
	err   error
}

func (f *fakeSource) LoadManifest(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

const manifestJSON = `{"models":[
	{"id":"heart-01","url":"https://assets.example.com/heart.glb","name":"Heart","keywords":["heart"],"category":"anatomy","description":"A heart"},
	{"id":"","url":"https://assets.example.com/broken.glb","name":"Broken","keywords":[],"category":"props","description":""},
	{"id":"cell-01","url":"https://assets.example.com/cell.glb","name":"Cell","keywords":["cell"],"category":"biology","description":"A cell"}
]}`

func TestEntriesSkipsIncompleteRows(t *testing.T) {
	c := NewCache(testLogger(t), &fakeSource{data: []byte(manifestJSON)})

	got, err := c.Entries(context.Background())
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(got) != 2 || got[0].ID != "heart-01" || got[1].ID != "cell-01" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestEntriesLoadsOnce(t *testing.T) {
	src := &fakeSource{data: []byte(manifestJSON)}
	c := NewCache(testLogger(t), src)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := c.Entries(context.Background()); err != nil {
				t.Errorf("entries: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if _, err := c.Entries(context.Background()); err != nil {
		t.Fatalf("entries: %v", err)
	}
	if n := src.callCount(); n != 1 {
		t.Fatalf("manifest loaded %d times, want 1", n)
	}
}

func TestEntriesRetriesAfterFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("storage down")}
	c := NewCache(testLogger(t), src)

	if _, err := c.Entries(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}

	src.mu.Lock()
	src.err = nil
	src.data = []byte(manifestJSON)
	src.mu.Unlock()

	got, err := c.Entries(context.Background())
	if err != nil {
		t.Fatalf("entries after recovery: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries=%d want 2", len(got))
	}
	if n := src.callCount(); n != 2 {
		t.Fatalf("manifest loaded %d times, want 2", n)
	}
}

func TestEntriesRejectsMalformedManifest(t *testing.T) {
	c := NewCache(testLogger(t), &fakeSource{data: []byte(`{"models": "nope"`)})
	if _, err := c.Entries(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}

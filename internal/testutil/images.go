package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
)

// MemoryImageStore keeps saved images in memory.
type MemoryImageStore struct {
	mu    sync.Mutex
	Saved map[string][]byte
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{Saved: make(map[string][]byte)}
}

// Save records data under key and returns a /media URL for it.
func (s *MemoryImageStore) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saved[key] = append([]byte(nil), data...)
	return "/media/" + key, nil
}

// Delete forgets key.
func (s *MemoryImageStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Saved, key)
	return nil
}

// Len is the number of stored images.
func (s *MemoryImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Saved)
}

// PNG returns a small valid PNG image.
func PNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"sync"
)

type resource interface {
	entityID() uint
}

// ImageFile attaches an upload to a create or update call.
type ImageFile struct {
	Name    string
	Content io.Reader
}

// store caches the full entity list keyed by id. The cache serves reads
// until a mutation invalidates it; every successful mutation refetches.
type store[T resource] struct {
	c        *Client
	path     string
	singular string
	plural   string

	mu    sync.Mutex
	cache map[uint]T
	valid bool
}

func newStore[T resource](c *Client, path, singular, plural string) *store[T] {
	return &store[T]{
		c:        c,
		path:     path,
		singular: singular,
		plural:   plural,
	}
}

// List returns all entities, newest first, serving the cache when valid.
func (s *store[T]) List(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	if s.valid {
		items := s.snapshot()
		s.mu.Unlock()
		return items, nil
	}
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

// Get returns one entity, from the cache when valid.
func (s *store[T]) Get(ctx context.Context, id uint) (T, error) {
	s.mu.Lock()
	if s.valid {
		if item, ok := s.cache[id]; ok {
			s.mu.Unlock()
			return item, nil
		}
	}
	s.mu.Unlock()

	var item T
	err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", s.path, id), "", nil, s.singular, &item)
	return item, err
}

// Refresh refetches the list and replaces the cache.
func (s *store[T]) Refresh(ctx context.Context) error {
	var items []T
	if err := s.c.do(ctx, http.MethodGet, s.path, "", nil, s.plural, &items); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[uint]T, len(items))
	for _, item := range items {
		s.cache[item.entityID()] = item
	}
	s.valid = true
	return nil
}

// Create posts the fields (and optional image) as multipart form data.
func (s *store[T]) Create(ctx context.Context, fields map[string]any, image *ImageFile) (T, error) {
	var item T
	body, contentType, err := encodeMultipart(fields, image)
	if err != nil {
		return item, err
	}
	if err := s.c.do(ctx, http.MethodPost, s.path, contentType, body, s.singular, &item); err != nil {
		return item, err
	}
	s.invalidateAndRefetch(ctx)
	return item, nil
}

// Update patches the fields (and optional image) for one entity.
func (s *store[T]) Update(ctx context.Context, id uint, fields map[string]any, image *ImageFile) (T, error) {
	var item T
	body, contentType, err := encodeMultipart(fields, image)
	if err != nil {
		return item, err
	}
	path := fmt.Sprintf("%s/%d", s.path, id)
	if err := s.c.do(ctx, http.MethodPatch, path, contentType, body, s.singular, &item); err != nil {
		return item, err
	}
	s.invalidateAndRefetch(ctx)
	return item, nil
}

// Delete removes one entity.
func (s *store[T]) Delete(ctx context.Context, id uint) error {
	path := fmt.Sprintf("%s/%d", s.path, id)
	if err := s.c.do(ctx, http.MethodDelete, path, "", nil, "", nil); err != nil {
		return err
	}
	s.invalidateAndRefetch(ctx)
	return nil
}

// invalidateAndRefetch drops the cache after a mutation and refetches on a
// best-effort basis. A failed refetch leaves the cache invalid, so the next
// read fetches again.
func (s *store[T]) invalidateAndRefetch(ctx context.Context) {
	s.mu.Lock()
	s.valid = false
	s.mu.Unlock()

	_ = s.Refresh(ctx)
}

// snapshot copies the cache into a slice ordered newest first. Callers must
// hold the mutex.
func (s *store[T]) snapshot() []T {
	items := make([]T, 0, len(s.cache))
	for _, item := range s.cache {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].entityID() > items[j].entityID()
	})
	return items
}

// encodeMultipart writes fields as form values. Slices of strings are
// JSON-encoded so the server's list normalization can decode them; other
// values go through fmt.Sprint.
func encodeMultipart(fields map[string]any, image *ImageFile) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for key, value := range fields {
		var text string
		switch v := value.(type) {
		case string:
			text = v
		case []string:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, "", fmt.Errorf("encode field %q: %w", key, err)
			}
			text = string(encoded)
		default:
			text = fmt.Sprint(v)
		}
		if err := w.WriteField(key, text); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", key, err)
		}
	}

	if image != nil {
		part, err := w.CreateFormFile("image", image.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := io.Copy(part, image.Content); err != nil {
			return nil, "", fmt.Errorf("copy image content: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finish multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	ErrParse = errors.New("jsonfile: parse")
	ErrIO    = errors.New("jsonfile: io")
)

// Collection is one JSON document on disk holding an entire resource
// collection. Every read parses the whole file and every write replaces it.
// Update serializes read-modify-write cycles within the process.
type Collection[T any] struct {
	path string
	mu   sync.RWMutex
}

func NewCollection[T any](dir, name string) *Collection[T] {
	return &Collection[T]{path: filepath.Join(dir, name)}
}

func (c *Collection[T]) Path() string { return c.path }

func (c *Collection[T]) Load(ctx context.Context) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.load(ctx)
}

func (c *Collection[T]) Save(ctx context.Context, doc T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, doc)
}

// Update loads the document, applies fn and saves the result while holding
// the collection lock. Nothing is written when fn returns an error.
func (c *Collection[T]) Update(ctx context.Context, fn func(doc *T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return c.save(ctx, doc)
}

// Ensure writes initial when the file does not exist yet.
func (c *Collection[T]) Ensure(initial T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := os.Stat(c.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", ErrIO, c.name(), err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("%w: create dir for %s: %v", ErrIO, c.name(), err)
	}
	return c.save(context.Background(), initial)
}

func (c *Collection[T]) load(ctx context.Context) (T, error) {
	var doc T
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, fmt.Errorf("%w: %s: file missing", ErrParse, c.name())
		}
		return doc, fmt.Errorf("%w: read %s: %v", ErrIO, c.name(), err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("%w: %s: %v", ErrParse, c.name(), err)
	}
	return doc, nil
}

func (c *Collection[T]) save(ctx context.Context, doc T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrIO, c.name(), err)
	}
	raw = append(raw, '\n')

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIO, c.name(), err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %v", ErrIO, c.name(), err)
	}
	return nil
}

func (c *Collection[T]) name() string { return filepath.Base(c.path) }

package mark2doc_test

import (
	"context"
	"sync"
	"testing"

	mark2doc "github.com/alnah/go-mark2doc"
)

func TestConverterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := mark2doc.NewConverterPool(2, mark2doc.WithCommandRunner(&mockRunner{}))
	defer pool.Close()

	if pool.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", pool.Size())
	}

	a, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	b, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if a == b {
		t.Error("pool handed out the same converter twice")
	}

	pool.Release(a)
	c, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
	if c != a {
		t.Error("released converter was not reused")
	}
	pool.Release(b)
	pool.Release(c)
}

func TestConverterPool_MinimumSize(t *testing.T) {
	t.Parallel()

	pool := mark2doc.NewConverterPool(0)
	defer pool.Close()
	if pool.Size() != 1 {
		t.Errorf("Size() = %d, want 1 for n=0", pool.Size())
	}
}

func TestConverterPool_BadOptions(t *testing.T) {
	t.Parallel()

	pool := mark2doc.NewConverterPool(1, mark2doc.WithHighlightStyle("no-such-style"))
	defer pool.Close()

	if _, err := pool.Acquire(); err == nil {
		t.Fatal("Acquire() with invalid options succeeded, want error")
	}
	// The failed slot is returned to the pool's budget.
	if _, err := pool.Acquire(); err == nil {
		t.Fatal("second Acquire() succeeded, want the same construction error")
	}
}

func TestConverterPool_ConcurrentConvert(t *testing.T) {
	t.Parallel()

	pool := mark2doc.NewConverterPool(2, mark2doc.WithCommandRunner(&mockRunner{}))
	defer pool.Close()

	const jobs = 8
	var wg sync.WaitGroup
	errs := make([]error, jobs)
	for i := 0; i < jobs; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv, err := pool.Acquire()
			if err != nil {
				errs[i] = err
				return
			}
			defer pool.Release(conv)
			_, errs[i] = conv.Convert(context.Background(), mark2doc.Input{
				Markup: sampleSource,
				Format: mark2doc.FormatTeX,
			})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("job %d: %v", i, err)
		}
	}
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	if got := mark2doc.ResolvePoolSize(5); got != 5 {
		t.Errorf("ResolvePoolSize(5) = %d, want explicit value", got)
	}

	got := mark2doc.ResolvePoolSize(0)
	if got < mark2doc.MinPoolSize || got > mark2doc.MaxPoolSize {
		t.Errorf("ResolvePoolSize(0) = %d, want within [%d, %d]",
			got, mark2doc.MinPoolSize, mark2doc.MaxPoolSize)
	}
}

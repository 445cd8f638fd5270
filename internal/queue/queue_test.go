package queue

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestJobQueue_EnqueueAndConsume(t *testing.T) {
	jq := NewJobQueue(2)
	defer jq.Close()

	job := &ProductionJob{ProductionID: "prod-1", UserID: "user-1"}
	if err := jq.Enqueue(job); err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	select {
	case got := <-jq.Jobs():
		if got.ProductionID != "prod-1" {
			t.Errorf("expected prod-1, got %s", got.ProductionID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job")
	}
}

func TestJobQueue_EnqueueAfterClose(t *testing.T) {
	jq := NewJobQueue(1)
	jq.Close()

	err := jq.Enqueue(&ProductionJob{ProductionID: "prod-1"})
	if !errors.Is(err, ErrQueueClosed) {
		t.Errorf("expected ErrQueueClosed, got %v", err)
	}
}

func TestJobQueue_CloseIsIdempotent(t *testing.T) {
	jq := NewJobQueue(1)
	jq.Close()
	jq.Close() // must not panic
}

func TestWorkerPool_ProcessesAllJobs(t *testing.T) {
	jq := NewJobQueue(10)
	pool := NewWorkerPool(jq, 3)

	var mu sync.Mutex
	processed := map[string]bool{}
	done := make(chan struct{})

	pool.Start(func(job *ProductionJob) error {
		mu.Lock()
		processed[job.ProductionID] = true
		if len(processed) == 5 {
			close(done)
		}
		mu.Unlock()
		return nil
	})

	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		if err := jq.Enqueue(&ProductionJob{ProductionID: id}); err != nil {
			t.Fatalf("Enqueue(%s) returned error: %v", id, err)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for jobs to be processed")
	}

	jq.Close()
	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(processed) != 5 {
		t.Errorf("expected 5 processed jobs, got %d", len(processed))
	}
}

func TestWorkerPool_DrainsOnClose(t *testing.T) {
	jq := NewJobQueue(10)
	pool := NewWorkerPool(jq, 1)

	var mu sync.Mutex
	count := 0
	pool.Start(func(job *ProductionJob) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	if err := jq.Enqueue(&ProductionJob{ProductionID: "p1"}); err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	jq.Close()
	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("expected the queued job to be drained, got %d", count)
	}
}

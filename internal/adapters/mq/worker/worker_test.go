package worker_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/sensei/internal/adapters/mq/queue"
	"github.com/okian/sensei/internal/adapters/mq/worker"
	"github.com/okian/sensei/internal/adapters/repository"
	"github.com/okian/sensei/internal/domain/model"
	"github.com/okian/sensei/internal/domain/scoring"
	"github.com/okian/sensei/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

// recordingStore counts appends and signals when a target is reached.
type recordingStore struct {
	mu      sync.Mutex
	subs    []model.Submission
	target  int
	reached chan struct{}
}

func newRecordingStore(target int) *recordingStore {
	return &recordingStore{target: target, reached: make(chan struct{})}
}

func (s *recordingStore) Append(_ context.Context, sub model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	if len(s.subs) == s.target {
		close(s.reached)
	}
	return nil
}

func (s *recordingStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func testCatalog() *repository.StaticCatalog {
	doc := `problems:
  - id: p1
    title: Two Sum
    topic: arrays
    difficulty: easy
    expected_complexity: O(n)
    expected_time_minutes: 15
`
	catalog, err := repository.ParseCatalog([]byte(doc))
	if err != nil {
		panic(err)
	}
	return catalog
}

func passedSubmission(id string) model.Submission {
	return model.Submission{
		ID:                 id,
		UserID:             "alice",
		ProblemID:          "p1",
		Topic:              "arrays",
		Difficulty:         model.DifficultyEasy,
		Passed:             true,
		Attempts:           1,
		TimeTakenMinutes:   10,
		ReportedComplexity: "O(n)",
		SubmittedAt:        time.Now().UTC(),
	}
}

func TestSubmissionWorker(t *testing.T) {
	Convey("Given a worker wired to a queue and store", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		store := newRecordingStore(1)
		w := worker.NewSubmissionWorker(q, scoring.New(), store, testCatalog(), worker.WithName("worker-test"))

		ctx, cancel := context.WithCancel(context.Background())
		go w.Run(ctx)
		Reset(cancel)

		Convey("When a submission is enqueued", func() {
			So(q.Enqueue(ctx, passedSubmission("s1")), ShouldBeTrue)

			Convey("Then the worker should score and persist it", func() {
				select {
				case <-store.reached:
				case <-time.After(2 * time.Second):
					t.Fatal("submission never stored")
				}
				So(store.len(), ShouldEqual, 1)
			})
		})

		Convey("When a submission references an uncataloged problem", func() {
			sub := passedSubmission("s2")
			sub.ProblemID = "mystery"
			So(q.Enqueue(ctx, sub), ShouldBeTrue)

			Convey("Then it should still be persisted", func() {
				select {
				case <-store.reached:
				case <-time.After(2 * time.Second):
					t.Fatal("submission never stored")
				}
				So(store.len(), ShouldEqual, 1)
			})
		})

		Convey("When the worker is shut down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			Convey("Then shutdown should complete cleanly", func() {
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool draining a loaded queue", t, func() {
		const n = 50

		q := queue.NewInMemoryQueue(queue.WithCapacity(n))
		store := newRecordingStore(n)
		pool := worker.NewPool(4, q, scoring.New(), store, testCatalog())

		ctx := context.Background()
		for i := 0; i < n; i++ {
			So(q.Enqueue(ctx, passedSubmission(fmt.Sprintf("s-%d", i))), ShouldBeTrue)
		}

		pool.Start(ctx)

		Convey("Then every submission should land in the store", func() {
			select {
			case <-store.reached:
			case <-time.After(5 * time.Second):
				t.Fatalf("only %d of %d submissions stored", store.len(), n)
			}
			So(store.len(), ShouldEqual, n)
			So(pool.Size(), ShouldEqual, 4)
		})

		Convey("Then shutdown should drain and stop the pool", func() {
			<-store.reached
			So(pool.Shutdown(ctx), ShouldBeNil)
			So(q.IsClosed(), ShouldBeTrue)
		})
	})
}

func TestPoolDefaultSize(t *testing.T) {
	Convey("Given a pool created with a non-positive size", t, func() {
		q := queue.NewInMemoryQueue()
		pool := worker.NewPool(0, q, scoring.New(), newRecordingStore(1), testCatalog())

		Convey("Then it should fall back to a CPU-derived size", func() {
			So(pool.Size(), ShouldBeGreaterThan, 0)
		})
	})
}

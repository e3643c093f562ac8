package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/sensei/internal/adapters/mq/queue"
	"github.com/okian/sensei/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sub(id string) model.Submission {
	return model.Submission{ID: id, UserID: "alice", ProblemID: "p1"}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with small capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx := context.Background()

		Convey("When enqueueing within capacity", func() {
			So(q.Enqueue(ctx, sub("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, sub("b")), ShouldBeTrue)

			Convey("Then the length should reflect the backlog", func() {
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And a third enqueue should be rejected, not block", func() {
				So(q.Enqueue(ctx, sub("c")), ShouldBeFalse)
			})
		})

		Convey("When dequeueing", func() {
			So(q.Enqueue(ctx, sub("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, sub("b")), ShouldBeTrue)

			ch := q.Dequeue(ctx)

			Convey("Then submissions should come out in FIFO order", func() {
				first := <-ch
				second := <-ch
				So(first.ID, ShouldEqual, "a")
				So(second.ID, ShouldEqual, "b")
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, sub("a")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then intake should stop", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, sub("b")), ShouldBeFalse)
			})

			Convey("Then queued submissions should drain before the channel closes", func() {
				ch := q.Dequeue(ctx)
				got, ok := <-ch
				So(ok, ShouldBeTrue)
				So(got.ID, ShouldEqual, "a")

				_, ok = <-ch
				So(ok, ShouldBeFalse)
			})

			Convey("Then closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the consumer context is cancelled", func() {
			consumerCtx, cancel := context.WithCancel(ctx)
			ch := q.Dequeue(consumerCtx)
			cancel()

			So(q.Enqueue(ctx, sub("a")), ShouldBeTrue)

			Convey("Then the dequeue channel should close", func() {
				select {
				case _, ok := <-ch:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("dequeue channel never closed")
				}
			})
		})
	})

	Convey("Given a queue under a producer/consumer pair", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(1000))
		ctx := context.Background()

		const n = 500
		for i := 0; i < n; i++ {
			So(q.Enqueue(ctx, sub(fmt.Sprintf("s-%d", i))), ShouldBeTrue)
		}
		So(q.Close(), ShouldBeNil)

		Convey("Then everything enqueued should be dequeued exactly once", func() {
			seen := make(map[string]bool)
			for s := range q.Dequeue(ctx) {
				So(seen[s.ID], ShouldBeFalse)
				seen[s.ID] = true
			}
			So(len(seen), ShouldEqual, n)
		})
	})
}

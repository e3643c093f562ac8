package metrics_test

import (
	"testing"

	"github.com/okian/sensei/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pipeline metrics", func() {
			Convey("Then helpers should not panic", func() {
				So(func() {
					metrics.RecordSubmissionScored(85)
					metrics.RecordSubmissionDuplicate()
					metrics.RecordSubmissionRejected()
					metrics.RecordRecommendation("weakness_reinforcement")
					metrics.RecordRecommendation("progression")
					metrics.RecordRecommendation("exploration")
					metrics.RecordAnalysisDuration(1.2)
					metrics.RecordRecommendDuration(0.4)
					metrics.RecordNarrationLatency(120)
					metrics.RecordNarrationError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording ingestion and HTTP metrics", func() {
			Convey("Then helpers should not panic", func() {
				So(func() {
					metrics.UpdateQueueSize(3)
					metrics.UpdateQueueCapacity(100)
					metrics.UpdateQueueUtilization(0.03)
					metrics.RecordQueueEnqueue()
					metrics.RecordQueueDequeue()
					metrics.RecordQueueRejection()
					metrics.UpdateWorkerCount(4)
					metrics.RecordWorkerError()
					metrics.UpdateStoredSubmissions(10)
					metrics.UpdateTrackedUsers(2)
					metrics.UpdateCatalogSize(40)
					metrics.RecordHTTPRequest("recommendations", "GET", "200")
					metrics.RecordHTTPRequestDuration("recommendations", "GET", "200", 2.5)
					metrics.RecordErrorByComponent("worker", "unknown_problem")
				}, ShouldNotPanic)
			})
		})

		Convey("When reading the registry", func() {
			reg := metrics.GetRegistry()

			Convey("Then it should gather collected families", func() {
				So(reg, ShouldNotBeNil)
				families, err := reg.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When constructing a disabled manager", func() {
			m := metrics.NewManager(metrics.WithEnabled(false))

			Convey("Then it should be usable without registration", func() {
				So(m, ShouldNotBeNil)
			})
		})
	})
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/sensei/internal/adapters/http/api"
	"github.com/okian/sensei/internal/domain/model"
	"github.com/okian/sensei/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// stubService implements api.Dependencies and api.StatsProvider for tests.
type stubService struct {
	seen        map[string]bool
	enqueueOK   bool
	enqueued    []model.Submission
	report      types.AnalysisReport
	set         types.RecommendationSet
	problems    []types.Problem
	analyzeErr  error
	recommend   func(userID string, limit int) (types.RecommendationSet, error)
	unrecorded  []string
	statsCalled bool
}

func newStubService() *stubService {
	return &stubService{
		seen:      make(map[string]bool),
		enqueueOK: true,
	}
}

func (s *stubService) SeenAndRecord(_ context.Context, id string) bool {
	if s.seen[id] {
		return true
	}
	s.seen[id] = true
	return false
}

func (s *stubService) Unrecord(_ context.Context, id string) {
	delete(s.seen, id)
	s.unrecorded = append(s.unrecorded, id)
}

func (s *stubService) Size() int64 { return int64(len(s.seen)) }

func (s *stubService) Enqueue(_ context.Context, sub model.Submission) bool {
	if !s.enqueueOK {
		return false
	}
	s.enqueued = append(s.enqueued, sub)
	return true
}

func (s *stubService) Analyze(_ context.Context, _ string) (types.AnalysisReport, error) {
	return s.report, s.analyzeErr
}

func (s *stubService) Recommend(_ context.Context, userID string, limit int) (types.RecommendationSet, error) {
	if s.recommend != nil {
		return s.recommend(userID, limit)
	}
	return s.set, nil
}

func (s *stubService) Problems(_ context.Context) []types.Problem { return s.problems }

func (s *stubService) GetStats() map[string]interface{} {
	s.statsCalled = true
	return map[string]interface{}{"total_submissions": 42}
}

func newTestServer(svc *stubService) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(svc, svc, 50).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func validSubmissionBody() map[string]any {
	return map[string]any{
		"submission_id":       "sub-1",
		"user_id":             "alice",
		"problem_id":          "arr-e1",
		"topic":               "arrays",
		"difficulty":          "easy",
		"passed":              true,
		"attempts":            1,
		"time_taken_minutes":  12.5,
		"reported_complexity": "O(n)",
		"ts":                  "2025-06-01T12:00:00Z",
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	So(err, ShouldBeNil)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	So(err, ShouldBeNil)
	return resp
}

func TestPostSubmission(t *testing.T) {
	Convey("Given a running API server", t, func() {
		svc := newStubService()
		srv := newTestServer(svc)
		Reset(srv.Close)

		Convey("When posting a valid submission", func() {
			resp := postJSON(t, srv.URL+"/submissions", validSubmissionBody())
			defer resp.Body.Close()

			Convey("Then it should be accepted and enqueued", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)

				var ack map[string]any
				So(json.NewDecoder(resp.Body).Decode(&ack), ShouldBeNil)
				So(ack["status"], ShouldEqual, "accepted")
				So(ack["duplicate"], ShouldEqual, false)

				So(len(svc.enqueued), ShouldEqual, 1)
				So(svc.enqueued[0].UserID, ShouldEqual, "alice")
				So(svc.enqueued[0].Difficulty, ShouldEqual, model.DifficultyEasy)
			})
		})

		Convey("When posting the same submission twice", func() {
			first := postJSON(t, srv.URL+"/submissions", validSubmissionBody())
			first.Body.Close()
			resp := postJSON(t, srv.URL+"/submissions", validSubmissionBody())
			defer resp.Body.Close()

			Convey("Then the second should be flagged duplicate and not enqueued", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var ack map[string]any
				So(json.NewDecoder(resp.Body).Decode(&ack), ShouldBeNil)
				So(ack["duplicate"], ShouldEqual, true)
				So(len(svc.enqueued), ShouldEqual, 1)
			})
		})

		Convey("When posting without a submission ID", func() {
			body := validSubmissionBody()
			delete(body, "submission_id")
			resp := postJSON(t, srv.URL+"/submissions", body)
			defer resp.Body.Close()

			Convey("Then one should be generated", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)

				var ack map[string]any
				So(json.NewDecoder(resp.Body).Decode(&ack), ShouldBeNil)
				So(ack["submission_id"], ShouldNotBeEmpty)
			})
		})

		Convey("When posting an invalid submission", func() {
			Convey("With a missing user_id", func() {
				body := validSubmissionBody()
				delete(body, "user_id")
				resp := postJSON(t, srv.URL+"/submissions", body)
				defer resp.Body.Close()

				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})

			Convey("With zero attempts", func() {
				body := validSubmissionBody()
				body["attempts"] = 0
				resp := postJSON(t, srv.URL+"/submissions", body)
				defer resp.Body.Close()

				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})

			Convey("With a malformed timestamp", func() {
				body := validSubmissionBody()
				body["ts"] = "yesterday"
				resp := postJSON(t, srv.URL+"/submissions", body)
				defer resp.Body.Close()

				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})

			Convey("With a malformed body", func() {
				resp, err := http.Post(srv.URL+"/submissions", "application/json", strings.NewReader("{"))
				So(err, ShouldBeNil)
				defer resp.Body.Close()

				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

				var e map[string]string
				So(json.NewDecoder(resp.Body).Decode(&e), ShouldBeNil)
				So(e["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the queue applies backpressure", func() {
			svc.enqueueOK = false
			resp := postJSON(t, srv.URL+"/submissions", validSubmissionBody())
			defer resp.Body.Close()

			Convey("Then the request should be rejected and the ID released", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusTooManyRequests)
				So(svc.unrecorded, ShouldContain, "sub-1")
			})
		})

		Convey("When using the wrong method", func() {
			resp, err := http.Get(srv.URL + "/submissions")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGetAnalysis(t *testing.T) {
	Convey("Given a running API server", t, func() {
		svc := newStubService()
		svc.report = types.AnalysisReport{
			OverallScore: 72.5,
			SkillLevel:   "advanced",
			Strengths:    []string{"arrays"},
		}
		srv := newTestServer(svc)
		Reset(srv.Close)

		Convey("When requesting a user's analysis", func() {
			resp, err := http.Get(srv.URL + "/analysis/alice")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the report should come back as JSON", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var got types.AnalysisReport
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(got.OverallScore, ShouldEqual, 72.5)
				So(got.SkillLevel, ShouldEqual, "advanced")
			})
		})

		Convey("When the user ID is missing from the path", func() {
			resp, err := http.Get(srv.URL + "/analysis/")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetRecommendations(t *testing.T) {
	Convey("Given a running API server", t, func() {
		svc := newStubService()
		svc.set = types.RecommendationSet{
			RecommendedProblems: []types.RecommendedProblem{
				{ProblemID: "dp-e2", Reason: "weakness_reinforcement"},
			},
			SkillLevel: "intermediate",
		}
		srv := newTestServer(svc)
		Reset(srv.Close)

		Convey("When requesting recommendations without a limit", func() {
			var gotLimit = -1
			svc.recommend = func(_ string, limit int) (types.RecommendationSet, error) {
				gotLimit = limit
				return svc.set, nil
			}

			resp, err := http.Get(srv.URL + "/recommendations/alice")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the engine default should apply", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(gotLimit, ShouldEqual, 0)

				var got types.RecommendationSet
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(len(got.RecommendedProblems), ShouldEqual, 1)
				So(got.RecommendedProblems[0].Reason, ShouldEqual, "weakness_reinforcement")
			})
		})

		Convey("When requesting with an explicit limit", func() {
			var gotLimit int
			svc.recommend = func(_ string, limit int) (types.RecommendationSet, error) {
				gotLimit = limit
				return svc.set, nil
			}

			resp, err := http.Get(srv.URL + "/recommendations/alice?limit=3")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(gotLimit, ShouldEqual, 3)
		})

		Convey("When the limit is invalid", func() {
			for _, bad := range []string{"0", "-2", "abc"} {
				resp, err := http.Get(srv.URL + "/recommendations/alice?limit=" + bad)
				So(err, ShouldBeNil)
				resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the limit exceeds the configured maximum", func() {
			resp, err := http.Get(srv.URL + "/recommendations/alice?limit=51")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			var e map[string]string
			So(json.NewDecoder(resp.Body).Decode(&e), ShouldBeNil)
			So(e["code"], ShouldEqual, "limit_exceeded")
		})
	})
}

func TestGetProblems(t *testing.T) {
	Convey("Given a server with a populated catalog", t, func() {
		svc := newStubService()
		svc.problems = []types.Problem{
			{ProblemID: "arr-e1", Title: "Two Sum", Topic: "arrays", Difficulty: "easy"},
			{ProblemID: "dp-e1", Title: "Climbing Stairs", Topic: "dynamic_programming", Difficulty: "easy"},
		}
		srv := newTestServer(svc)
		Reset(srv.Close)

		Convey("When listing problems", func() {
			resp, err := http.Get(srv.URL + "/problems")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the catalog should come back in order", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var got []types.Problem
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(got[0].ProblemID, ShouldEqual, "arr-e1")
			})
		})

		Convey("When filtering by topic", func() {
			resp, err := http.Get(srv.URL + "/problems?topic=arrays")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then only matching problems should come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var got []types.Problem
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].ProblemID, ShouldEqual, "arr-e1")
			})
		})

		Convey("When filtering by topic and difficulty together", func() {
			resp, err := http.Get(srv.URL + "/problems?topic=dynamic_programming&difficulty=easy")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var got []types.Problem
			So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
			So(len(got), ShouldEqual, 1)
			So(got[0].ProblemID, ShouldEqual, "dp-e1")
		})

		Convey("When no problem matches the filter", func() {
			resp, err := http.Get(srv.URL + "/problems?difficulty=hard")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var got []types.Problem
			So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
			So(got, ShouldBeEmpty)
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given a running API server", t, func() {
		svc := newStubService()
		srv := newTestServer(svc)
		Reset(srv.Close)

		Convey("When requesting stats", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the provider's numbers should be returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(svc.statsCalled, ShouldBeTrue)

				var got map[string]any
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(got["total_submissions"], ShouldEqual, 42)
			})
		})

		Convey("When requesting health", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then metrics exposition should be served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}

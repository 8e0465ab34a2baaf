package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/deke/internal/adapters/http/api"
	"github.com/okian/deke/internal/adapters/repository"
	"github.com/okian/deke/internal/domain/lineup"
	"github.com/okian/deke/internal/domain/rating"
	"github.com/okian/deke/internal/domain/statline"
	. "github.com/smartystreets/goconvey/convey"
)

// stubDeps is a canned-response implementation of api.Dependencies.
type stubDeps struct {
	rankResult   rating.Result
	lineupResult lineup.Result
	entries      []api.Entry
	rankEntry    api.Entry
	rankErr      error
	acceptLines  bool

	enqueued []string
}

func (s *stubDeps) SeenAndRecord(ctx context.Context, id string) bool { return false }
func (s *stubDeps) Unrecord(ctx context.Context, id string)           {}
func (s *stubDeps) Size() int64                                       { return 0 }

func (s *stubDeps) Enqueue(ctx context.Context, id string, line statline.StatLine) bool {
	if !s.acceptLines {
		return false
	}
	s.enqueued = append(s.enqueued, id)
	return true
}

func (s *stubDeps) RankOne(ctx context.Context, line statline.StatLine) rating.Result {
	return s.rankResult
}

func (s *stubDeps) RankMany(ctx context.Context, lines []statline.StatLine) ([]rating.Result, error) {
	out := make([]rating.Result, len(lines))
	for i := range out {
		out[i] = s.rankResult
	}
	return out, nil
}

func (s *stubDeps) OptimizeLineup(ctx context.Context, players []lineup.Player) lineup.Result {
	return s.lineupResult
}

func (s *stubDeps) TopN(ctx context.Context, n int) ([]api.Entry, error) {
	if n > len(s.entries) {
		n = len(s.entries)
	}
	return s.entries[:n], nil
}

func (s *stubDeps) Rank(ctx context.Context, entityID string) (api.Entry, error) {
	if s.rankErr != nil {
		return api.Entry{}, s.rankErr
	}
	return s.rankEntry, nil
}

type stubStats struct{}

func (stubStats) GetStats() api.Stats {
	return api.Stats{
		Started:       true,
		WorkerCount:   4,
		QueueSize:     1000,
		QueueLength:   7,
		TotalEntities: 42,
		ModelCount:    3,
	}
}

func newTestServer(deps *stubDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, stubStats{}, 100).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("posting: %v", err)
	}
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func validResult(score float64) rating.Result {
	return rating.Result{
		Score:      score,
		Valid:      true,
		Percentile: 80,
		EntityID:   "p1",
		Entity:     statline.EntityPlayer,
		Level:      statline.PlayerDay,
		Phase:      statline.PhaseRegular,
	}
}

func TestRankEndpoints(t *testing.T) {
	Convey("Given a server over stubbed dependencies", t, func() {
		deps := &stubDeps{rankResult: validResult(87.5), acceptLines: true}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When posting a stat line to /rank", func() {
			resp := postJSON(t, srv.URL+"/rank", statline.StatLine{"playerId": "p1", "G": 2})

			Convey("Then the rating is returned with a concrete score", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]any
				decodeInto(t, resp, &body)
				So(body["score"], ShouldAlmostEqual, 87.5, 1e-9)
				So(body["valid"], ShouldBeTrue)
				So(body["didNotPlay"], ShouldBeFalse)
				So(body["entityId"], ShouldEqual, "p1")
			})
		})

		Convey("When the rating is a verified did-not-play", func() {
			deps.rankResult = validResult(math.NaN())
			resp := postJSON(t, srv.URL+"/rank", statline.StatLine{"playerId": "p1", "gp": 0})

			Convey("Then the score encodes as null, not NaN", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]any
				decodeInto(t, resp, &body)
				So(body["score"], ShouldBeNil)
				So(body["valid"], ShouldBeTrue)
				So(body["didNotPlay"], ShouldBeTrue)
			})
		})

		Convey("When posting an empty stat line", func() {
			resp := postJSON(t, srv.URL+"/rank", statline.StatLine{})

			Convey("Then the request is rejected", func() {
				resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting malformed JSON", func() {
			resp, err := http.Post(srv.URL+"/rank", "application/json", bytes.NewReader([]byte("{nope")))
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When getting /rank instead of posting", func() {
			resp, err := http.Get(srv.URL + "/rank")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When posting a batch to /rank/batch", func() {
			resp := postJSON(t, srv.URL+"/rank/batch", []statline.StatLine{
				{"playerId": "p1", "G": 1},
				{"playerId": "p2", "G": 2},
			})

			Convey("Then one rating per line comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body []map[string]any
				decodeInto(t, resp, &body)
				So(body, ShouldHaveLength, 2)
			})
		})

		Convey("When posting an empty batch", func() {
			resp := postJSON(t, srv.URL+"/rank/batch", []statline.StatLine{})
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStatLinesEndpoint(t *testing.T) {
	Convey("Given a server accepting ingest", t, func() {
		deps := &stubDeps{acceptLines: true}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When posting lines with and without ids", func() {
			resp := postJSON(t, srv.URL+"/statlines", []statline.StatLine{
				{"statlineId": "line-1", "playerId": "p1"},
				{"playerId": "p2"},
			})

			Convey("Then the batch is accepted asynchronously", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				var body map[string]int
				decodeInto(t, resp, &body)
				So(body["accepted"], ShouldEqual, 2)
				So(body["rejected"], ShouldEqual, 0)
			})

			Convey("Then the explicit id is preserved and the missing one generated", func() {
				So(deps.enqueued, ShouldHaveLength, 2)
				So(deps.enqueued[0], ShouldEqual, "line-1")
				So(deps.enqueued[1], ShouldNotBeEmpty)
			})
		})

		Convey("When posting an empty batch", func() {
			resp := postJSON(t, srv.URL+"/statlines", []statline.StatLine{})
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given a server under backpressure", t, func() {
		deps := &stubDeps{acceptLines: false}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When the whole batch is rejected", func() {
			resp := postJSON(t, srv.URL+"/statlines", []statline.StatLine{
				{"statlineId": "line-1"},
			})
			resp.Body.Close()

			Convey("Then the caller is told to back off", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusTooManyRequests)
			})
		})
	})
}

func TestLineupEndpoint(t *testing.T) {
	Convey("Given a server with a canned lineup", t, func() {
		deps := &stubDeps{lineupResult: lineup.Result{
			Players: []lineup.PlayerAssignment{
				{Player: lineup.Player{PlayerID: "p1"}, FullPos: lineup.LeftWing, BestPos: lineup.LeftWing},
			},
			FullPosRating: 80,
			BestPosRating: 80,
		}}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When posting a roster", func() {
			resp := postJSON(t, srv.URL+"/lineup", map[string]any{
				"players": []lineup.Player{
					{PlayerID: "p1", Eligible: []lineup.Position{lineup.LeftWing}, Rating: 80},
				},
			})

			Convey("Then the assignment is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body lineup.Result
				decodeInto(t, resp, &body)
				So(body.Players, ShouldHaveLength, 1)
				So(body.BestPosRating, ShouldAlmostEqual, 80, 1e-9)
			})
		})

		Convey("When a player is missing its id", func() {
			resp := postJSON(t, srv.URL+"/lineup", map[string]any{
				"players": []lineup.Player{{Rating: 80}},
			})
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestLeaderboardEndpoints(t *testing.T) {
	Convey("Given a server with a populated board", t, func() {
		deps := &stubDeps{
			entries: []api.Entry{
				{Rank: 1, EntityID: "p1", Rating: 92.1},
				{Rank: 2, EntityID: "p2", Rating: 88.3},
			},
			rankEntry: api.Entry{Rank: 1, EntityID: "p1", Rating: 92.1},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When getting the leaderboard", func() {
			resp, err := http.Get(srv.URL + "/leaderboard?limit=2")
			So(err, ShouldBeNil)

			Convey("Then entries come back in rank order", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body []api.Entry
				decodeInto(t, resp, &body)
				So(body, ShouldHaveLength, 2)
				So(body[0].EntityID, ShouldEqual, "p1")
			})
		})

		Convey("When the limit is missing or invalid", func() {
			for _, q := range []string{"", "?limit=0", "?limit=abc"} {
				resp, err := http.Get(srv.URL + "/leaderboard" + q)
				So(err, ShouldBeNil)
				resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the limit exceeds the configured maximum", func() {
			resp, err := http.Get(srv.URL + "/leaderboard?limit=101")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When looking up one entity's best rating", func() {
			resp, err := http.Get(srv.URL + "/rating/p1")
			So(err, ShouldBeNil)

			Convey("Then the entry is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body api.Entry
				decodeInto(t, resp, &body)
				So(body.EntityID, ShouldEqual, "p1")
				So(body.Rank, ShouldEqual, 1)
			})
		})

		Convey("When the entity is unknown", func() {
			deps.rankErr = repository.ErrNotFound
			resp, err := http.Get(srv.URL + "/rating/ghost")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the rating path is empty", func() {
			resp, err := http.Get(srv.URL + "/rating/")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given a running server", t, func() {
		srv := newTestServer(&stubDeps{})
		defer srv.Close()

		Convey("When probing /healthz", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When reading /stats", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)

			Convey("Then the typed snapshot round-trips", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body api.Stats
				decodeInto(t, resp, &body)
				So(body.Started, ShouldBeTrue)
				So(body.WorkerCount, ShouldEqual, 4)
				So(body.QueueLength, ShouldEqual, 7)
				So(body.TotalEntities, ShouldEqual, 42)
				So(body.ModelCount, ShouldEqual, 3)
			})
		})
	})
}

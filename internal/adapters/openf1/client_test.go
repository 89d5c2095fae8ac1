package openf1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avolkov/paddock/internal/adapters/openf1"
	. "github.com/smartystreets/goconvey/convey"
)

func newClient(baseURL string, opts ...openf1.Option) *openf1.Client {
	base := []openf1.Option{
		openf1.WithBaseURL(baseURL),
		openf1.WithBaseDelay(time.Millisecond),
		openf1.WithRateLimitDelay(0),
		openf1.WithPacingDelay(0),
	}
	return openf1.New(append(base, opts...)...)
}

func TestClientCaching(t *testing.T) {
	Convey("Given an upstream serving the sessions endpoint", t, func() {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			_ = json.NewEncoder(w).Encode([]openf1.Session{{SessionKey: 9001, SessionName: "Race", Year: 2025}})
		}))
		defer srv.Close()

		Convey("When the same endpoint is fetched twice within the TTL", func() {
			c := newClient(srv.URL)
			first, err1 := c.Sessions(context.Background(), 2025)
			second, err2 := c.Sessions(context.Background(), 2025)

			Convey("Then only one network call should be made", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldHaveLength, 1)
				So(second[0].SessionKey, ShouldEqual, 9001)
				So(atomic.LoadInt32(&hits), ShouldEqual, 1)
			})
		})

		Convey("When the TTL expires between two fetches", func() {
			c := newClient(srv.URL, openf1.WithCacheTTL(10*time.Millisecond))
			_, err1 := c.Sessions(context.Background(), 2025)
			time.Sleep(25 * time.Millisecond)
			_, err2 := c.Sessions(context.Background(), 2025)

			Convey("Then a second network call should be made", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(atomic.LoadInt32(&hits), ShouldEqual, 2)
			})
		})

		Convey("When the cache is cleared between two fetches", func() {
			c := newClient(srv.URL)
			_, err1 := c.Sessions(context.Background(), 2025)
			c.ClearCache()
			_, err2 := c.Sessions(context.Background(), 2025)

			Convey("Then both fetches should hit the network", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(atomic.LoadInt32(&hits), ShouldEqual, 2)
			})
		})
	})
}

func TestClientRetry(t *testing.T) {
	Convey("Given an upstream that rate limits before succeeding", t, func() {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(&hits, 1)
			if n <= 2 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			_ = json.NewEncoder(w).Encode([]openf1.SessionResult{{DriverNumber: 44, Position: 1, Points: 25}})
		}))
		defer srv.Close()

		Convey("When the fetch stays within the attempt budget", func() {
			c := newClient(srv.URL, openf1.WithMaxAttempts(3))
			results, err := c.SessionResults(context.Background(), 9001)

			Convey("Then the successful payload should be returned", func() {
				So(err, ShouldBeNil)
				So(results, ShouldHaveLength, 1)
				So(results[0].Points, ShouldEqual, 25)
				So(atomic.LoadInt32(&hits), ShouldEqual, 3)
			})
		})
	})

	Convey("Given an upstream that always rate limits", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		Convey("When the attempt budget is exhausted", func() {
			c := newClient(srv.URL, openf1.WithMaxAttempts(3))
			_, err := c.SessionResults(context.Background(), 9001)

			Convey("Then ErrRateLimited should propagate", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, openf1.ErrRateLimited), ShouldBeTrue)
			})
		})
	})

	Convey("Given an upstream that fails with a server error", t, func() {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		Convey("When a fetch is issued", func() {
			c := newClient(srv.URL, openf1.WithMaxAttempts(3))
			_, err := c.Positions(context.Background(), 9001)

			Convey("Then the status error should propagate without retries", func() {
				So(err, ShouldNotBeNil)
				var statusErr *openf1.StatusError
				So(errors.As(err, &statusErr), ShouldBeTrue)
				So(statusErr.Code, ShouldEqual, http.StatusInternalServerError)
				So(atomic.LoadInt32(&hits), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		Convey("When a fetch is issued", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			c := newClient(srv.URL)
			_, err := c.Sessions(ctx, 2025)

			Convey("Then the context error should surface", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestGapDecoding(t *testing.T) {
	Convey("Given session_result rows with mixed gap encodings", t, func() {
		payload := `[
			{"driver_number": 1, "position": 1, "points": 25, "gap_to_leader": null},
			{"driver_number": 4, "position": 2, "points": 18, "gap_to_leader": 2.446},
			{"driver_number": 18, "position": 15, "points": 0, "gap_to_leader": "+1 LAP"}
		]`

		Convey("When decoding", func() {
			var rows []openf1.SessionResult
			err := json.Unmarshal([]byte(payload), &rows)

			Convey("Then every variant should decode", func() {
				So(err, ShouldBeNil)
				So(rows[0].GapToLeader, ShouldEqual, openf1.Gap(""))
				So(rows[1].GapToLeader, ShouldEqual, openf1.Gap("+2.446"))
				So(rows[2].GapToLeader, ShouldEqual, openf1.Gap("+1 LAP"))
			})
		})
	})
}

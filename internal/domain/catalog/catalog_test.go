package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avolkov/paddock/internal/adapters/openf1"
	"github.com/avolkov/paddock/internal/domain/catalog"
	"github.com/avolkov/paddock/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeFetcher struct {
	sessions []openf1.Session
	err      error
}

func (f *fakeFetcher) Sessions(_ context.Context, _ int) ([]openf1.Session, error) {
	return f.sessions, f.err
}

func TestCatalog(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given a season with mixed session kinds", t, func() {
		fetcher := &fakeFetcher{sessions: []openf1.Session{
			{SessionKey: 1, SessionName: "Practice 1", DateStart: now.AddDate(0, -2, 0), Circuit: "Sakhir", Year: 2025},
			{SessionKey: 2, SessionName: "Qualifying", DateStart: now.AddDate(0, -2, 1), Circuit: "Sakhir", Year: 2025},
			{SessionKey: 3, SessionName: "Race", DateStart: now.AddDate(0, -2, 2), Circuit: "Sakhir", Year: 2025},
			{SessionKey: 4, SessionName: "Sprint", DateStart: now.AddDate(0, -1, 0), Circuit: "Shanghai", Year: 2025},
			{SessionKey: 5, SessionName: "Sprint Race", DateStart: now.AddDate(0, -1, 1), Circuit: "Miami", Year: 2025},
			{SessionKey: 6, SessionName: "Race", DateStart: now.AddDate(0, 3, 0), Circuit: "Monza", Year: 2025},
		}}
		c := catalog.New(fetcher)

		Convey("When listing sessions", func() {
			sessions, err := c.Sessions(context.Background(), 2025)

			Convey("Then kinds should be mapped from the session name", func() {
				So(err, ShouldBeNil)
				So(sessions, ShouldHaveLength, 6)
				So(sessions[0].Kind, ShouldEqual, model.KindOther)
				So(sessions[1].Kind, ShouldEqual, model.KindQualifying)
				So(sessions[2].Kind, ShouldEqual, model.KindRace)
				So(sessions[3].Kind, ShouldEqual, model.KindSprint)
				So(sessions[4].Kind, ShouldEqual, model.KindSprint)
			})

			Convey("And filtering to completed sessions drops future ones", func() {
				done := catalog.Completed(sessions, now)
				So(done, ShouldHaveLength, 5)
				for _, s := range done {
					So(s.Start.Before(now), ShouldBeTrue)
				}
			})

			Convey("And partitioning groups by kind, dropping practice", func() {
				races, sprints, qualifying := catalog.Partition(sessions)
				So(races, ShouldHaveLength, 2)
				So(sprints, ShouldHaveLength, 2)
				So(qualifying, ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given an upstream failure", t, func() {
		c := catalog.New(&fakeFetcher{err: errors.New("boom")})

		Convey("When listing sessions", func() {
			_, err := c.Sessions(context.Background(), 2025)

			Convey("Then the error should propagate", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

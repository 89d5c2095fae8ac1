package roster_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avolkov/paddock/internal/adapters/openf1"
	"github.com/avolkov/paddock/internal/domain/model"
	"github.com/avolkov/paddock/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeFetcher struct {
	bySession map[int][]openf1.Driver
	err       error
}

func (f *fakeFetcher) SessionDrivers(_ context.Context, key int) ([]openf1.Driver, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bySession[key], nil
}

func session(key int) model.Session {
	return model.Session{Key: key, Kind: model.KindRace, Start: time.Now()}
}

func TestRegistry(t *testing.T) {
	Convey("Given a driver who changes team mid-season", t, func() {
		fetcher := &fakeFetcher{bySession: map[int][]openf1.Driver{
			1: {
				{DriverNumber: 44, FullName: "Lewis HAMILTON", TeamName: "Team Alpha"},
				{DriverNumber: 63, FullName: "George RUSSELL", TeamName: "Team Alpha"},
			},
			2: {
				{DriverNumber: 44, FullName: "Lewis HAMILTON", TeamName: "Team Beta"},
			},
		}}
		reg := roster.New(fetcher)

		Convey("When sessions are resolved in chronological order", func() {
			first, err1 := reg.ResolveForSession(context.Background(), session(1))
			second, err2 := reg.ResolveForSession(context.Background(), session(2))

			Convey("Then each session keeps its own affiliation", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first[44].Team, ShouldEqual, "Team Alpha")
				So(second[44].Team, ShouldEqual, "Team Beta")
			})

			Convey("And the current team reflects the latest session", func() {
				team, ok := reg.CurrentTeam(44)
				So(ok, ShouldBeTrue)
				So(team, ShouldEqual, "Team Beta")

				team, ok = reg.CurrentTeam(63)
				So(ok, ShouldBeTrue)
				So(team, ShouldEqual, "Team Alpha")
			})

			Convey("And observed drivers are listed sorted by name", func() {
				drivers := reg.Drivers()
				So(drivers, ShouldHaveLength, 2)
				So(drivers[0].Name, ShouldEqual, "George RUSSELL")
				So(drivers[1].Name, ShouldEqual, "Lewis HAMILTON")
			})

			Convey("And Reset clears the accumulated state", func() {
				reg.Reset()
				_, ok := reg.CurrentTeam(44)
				So(ok, ShouldBeFalse)
				So(reg.Drivers(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given the name override table", t, func() {
		fetcher := &fakeFetcher{bySession: map[int][]openf1.Driver{
			1: {{DriverNumber: 12, FullName: "Kimi ANTONELLI", TeamName: "Team Alpha"}},
		}}
		reg := roster.New(fetcher)

		Convey("When a session with an overridden driver is resolved", func() {
			m, err := reg.ResolveForSession(context.Background(), session(1))

			Convey("Then the canonical display name is applied", func() {
				So(err, ShouldBeNil)
				So(m[12].Name, ShouldEqual, "Andrea Kimi ANTONELLI")
			})
		})

		Convey("When normalizing a driver without an override", func() {
			So(roster.NormalizeName(44, "Lewis HAMILTON"), ShouldEqual, "Lewis HAMILTON")
		})
	})

	Convey("Given an upstream failure", t, func() {
		reg := roster.New(&fakeFetcher{err: errors.New("boom")})

		Convey("When resolving a session", func() {
			_, err := reg.ResolveForSession(context.Background(), session(1))

			Convey("Then the error should propagate", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

package repository_test

import (
	"sync"
	"testing"
	"time"

	"github.com/avolkov/paddock/internal/adapters/repository"
	"github.com/avolkov/paddock/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	Convey("Given a new snapshot store", t, func() {
		store := repository.NewStore()

		Convey("Then it starts empty but readable", func() {
			So(store.Current(), ShouldNotBeNil)
			So(store.Current().Results, ShouldBeEmpty)
			So(store.Ready(), ShouldBeFalse)
		})

		Convey("When a non-empty snapshot is committed", func() {
			snap := &model.Snapshot{
				Results: []model.SessionResult{{Driver: "Max VERSTAPPEN", Points: 25}},
				BuiltAt: time.Now(),
			}
			store.Commit(snap)

			Convey("Then readers see the new snapshot and the store is ready", func() {
				So(store.Ready(), ShouldBeTrue)
				So(store.Current().Results, ShouldHaveLength, 1)
			})
		})

		Convey("When snapshots are committed under concurrent readers", func() {
			var wg sync.WaitGroup
			stop := make(chan struct{})

			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					store.Commit(&model.Snapshot{
						Results: make([]model.SessionResult, i+1),
						BuiltAt: time.Now(),
					})
				}
				close(stop)
			}()

			consistent := true
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-stop:
						return
					default:
						snap := store.Current()
						// A snapshot is all-or-nothing: its slice header and
						// length always belong to one committed value.
						if snap == nil {
							consistent = false
							return
						}
					}
				}
			}()

			wg.Wait()

			Convey("Then readers never observe a torn snapshot", func() {
				So(consistent, ShouldBeTrue)
				So(store.Current().Results, ShouldHaveLength, 100)
			})
		})
	})
}

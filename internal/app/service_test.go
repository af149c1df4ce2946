package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	app "github.com/zikuli/precision/internal/app"
	"github.com/zikuli/precision/internal/domain/model"
	"github.com/zikuli/precision/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	goleak.VerifyTestMain(m)
}

func newStartedService(t *testing.T, opts ...app.Option) *app.Service {
	t.Helper()
	svc := app.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("failed to start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := app.New()

		Convey("When started twice", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Start(context.Background()), ShouldBeNil)

			Convey("Then it reports started once and stops cleanly", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				svc.Stop()
				svc.Stop()
				So(svc.GetStats()["started"], ShouldBeFalse)
			})
		})
	})
}

func TestService_TargetsAndClicks(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := newStartedService(t)

		Convey("When a target batch is registered", func() {
			batch := []model.Target{
				{ID: "ok", X: 10, Y: 10, W: 60, H: 25, CenterX: 40, CenterY: 22},
			}
			So(svc.RegisterTargets(ctx, batch), ShouldBeNil)

			Convey("Then Targets returns exactly the batch", func() {
				got := svc.Targets(ctx)
				So(got, ShouldHaveLength, 1)
				So(got[0].ID, ShouldEqual, "ok")
			})

			Convey("And the reference click scenario aggregates to one pass", func() {
				stored, err := svc.RecordClick(ctx, model.ClickReport{
					Target:    "ok",
					ClickX:    41,
					ClickY:    23,
					ExpectedX: 40,
					ExpectedY: 22,
					Distance:  1.41,
					Success:   true,
				})
				So(err, ShouldBeNil)
				So(stored.ReportID, ShouldNotBeEmpty)
				So(stored.RecordedAt.IsZero(), ShouldBeFalse)

				res := svc.Results(ctx)
				So(res.Summary.Total, ShouldEqual, 1)
				So(res.Summary.Passed, ShouldEqual, 1)
				So(res.Summary.Failed, ShouldEqual, 0)
				So(res.Summary.Threshold, ShouldEqual, 5.0)
				So(res.Clicks, ShouldHaveLength, 1)
				So(res.Clicks[0].ReportID, ShouldEqual, stored.ReportID)
			})

			Convey("And a failed click is reflected in the aggregate", func() {
				_, err := svc.RecordClick(ctx, model.ClickReport{
					Target:    "ok",
					ClickX:    60,
					ClickY:    40,
					ExpectedX: 40,
					ExpectedY: 22,
					Distance:  26.9,
					Success:   false,
				})
				So(err, ShouldBeNil)

				res := svc.Results(ctx)
				So(res.Summary.Failed, ShouldEqual, 1)
			})

			Convey("And clearing results leaves the targets registered", func() {
				_, _ = svc.RecordClick(ctx, model.ClickReport{Target: "ok", Success: true})
				svc.ClearResults(ctx)

				res := svc.Results(ctx)
				So(res.Summary.Total, ShouldEqual, 0)
				So(res.Summary.Passed, ShouldEqual, 0)
				So(res.Summary.Failed, ShouldEqual, 0)
				So(svc.Targets(ctx), ShouldHaveLength, 1)
			})
		})

		Convey("When a click references a target that was never registered", func() {
			_, err := svc.RecordClick(ctx, model.ClickReport{
				Target: "stale", ClickX: 1, ClickY: 1, Success: true,
			})

			Convey("Then the report is recorded anyway", func() {
				So(err, ShouldBeNil)
				So(svc.Results(ctx).Summary.Total, ShouldEqual, 1)
			})
		})
	})
}

func TestService_Recompute(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with recompute enabled", t, func() {
		svc := newStartedService(t, app.WithRecompute(true))

		Convey("When a report claims success but is 6px off", func() {
			_, err := svc.RecordClick(ctx, model.ClickReport{
				Target:    "ok",
				ClickX:    106,
				ClickY:    100,
				ExpectedX: 100,
				ExpectedY: 100,
				Distance:  6,
				Success:   true,
			})
			So(err, ShouldBeNil)

			Convey("Then a mismatch is counted but the claim stays authoritative", func() {
				stats := svc.GetStats()
				So(stats["accuracyMismatches"], ShouldEqual, int64(1))

				res := svc.Results(ctx)
				So(res.Summary.Passed, ShouldEqual, 1)
			})
		})

		Convey("When a report's claim matches the recomputation", func() {
			_, err := svc.RecordClick(ctx, model.ClickReport{
				Target:    "ok",
				ClickX:    103,
				ClickY:    104,
				ExpectedX: 100,
				ExpectedY: 100,
				Distance:  5,
				Success:   true,
			})
			So(err, ShouldBeNil)

			Convey("Then no mismatch is counted", func() {
				So(svc.GetStats()["accuracyMismatches"], ShouldEqual, int64(0))
			})
		})
	})

	Convey("Given a service with recompute disabled", t, func() {
		svc := newStartedService(t, app.WithRecompute(false))

		Convey("Then even an absurd claim is recorded without diagnostics", func() {
			_, err := svc.RecordClick(ctx, model.ClickReport{
				Target: "ok", ClickX: 0, ClickY: 0, ExpectedX: 500, ExpectedY: 500,
				Distance: 707.1, Success: true,
			})
			So(err, ShouldBeNil)
			So(svc.GetStats()["accuracyMismatches"], ShouldEqual, int64(0))
		})
	})
}

func TestService_Options(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with a custom threshold", t, func() {
		svc := newStartedService(t, app.WithThreshold(10), app.WithLedgerCapacity(64))

		Convey("Then the aggregate echoes the configured threshold", func() {
			So(svc.Threshold(), ShouldEqual, 10.0)
			So(svc.Results(ctx).Summary.Threshold, ShouldEqual, 10.0)
		})
	})
}

func TestService_ConcurrentRecordClick(t *testing.T) {
	ctx := context.Background()

	Convey("Given 200 concurrent reporters", t, func() {
		svc := newStartedService(t)

		const reporters = 200
		var wg sync.WaitGroup
		wg.Add(reporters)
		for i := 0; i < reporters; i++ {
			go func(n int) {
				defer wg.Done()
				_, _ = svc.RecordClick(ctx, model.ClickReport{
					Target:  "ok",
					Marker:  fmt.Sprintf("marker-%d", n),
					Success: n%3 != 0,
				})
			}(i)
		}
		wg.Wait()

		Convey("Then every report lands exactly once and counts add up", func() {
			res := svc.Results(ctx)
			So(res.Summary.Total, ShouldEqual, reporters)
			So(res.Summary.Passed+res.Summary.Failed, ShouldEqual, reporters)

			seen := make(map[string]int, reporters)
			ids := make(map[string]int, reporters)
			for _, c := range res.Clicks {
				seen[c.Marker]++
				ids[c.ReportID]++
			}
			So(seen, ShouldHaveLength, reporters)
			So(ids, ShouldHaveLength, reporters)
		})
	})
}

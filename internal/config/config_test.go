package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/avolkov/paddock/internal/config"
)

func TestConfigDefaults(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should carry sane defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":8090")
			convey.So(cfg.SeasonYear, convey.ShouldEqual, 2025)
			convey.So(cfg.UpstreamBaseURL, convey.ShouldEqual, "https://api.openf1.org/v1")
			convey.So(cfg.CacheTTL, convey.ShouldEqual, 30*time.Minute)
			convey.So(cfg.MaxAttempts, convey.ShouldEqual, 3)
			convey.So(cfg.RetryBaseDelay, convey.ShouldEqual, 500*time.Millisecond)
			convey.So(cfg.RateLimitDelay, convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.PacingDelay, convey.ShouldEqual, 500*time.Millisecond)
			convey.So(cfg.RefreshInterval, convey.ShouldEqual, 30*time.Minute)
			convey.So(cfg.AllowedOrigins, convey.ShouldResemble, []string{"*"})
		})
	})
}

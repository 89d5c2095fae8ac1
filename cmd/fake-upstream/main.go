// Command fake-upstream serves a small canned season over the OpenF1 wire
// format. Point the service at it with PADDOCK_UPSTREAM_BASE_URL for local
// development without burning real API quota.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/avolkov/paddock/internal/fakeapi"
)

func main() {
	addr := flag.String("addr", ":9911", "listen address")
	flag.Parse()

	upstream := fakeapi.New()
	fakeapi.DefaultSeason(upstream)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           upstream.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	os.Stdout.WriteString("fake upstream listening on " + *addr + "\n")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		os.Stderr.WriteString("fake upstream failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

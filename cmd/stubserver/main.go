// Command stubserver runs the development stand-in for the resume-analyzer
// backend so the CLI and integration tests can work offline.
package main

import (
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"resume-client/internal/shared/telemetry"
	"resume-client/internal/stub"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	delay := flag.Duration("analysis-delay", 15*time.Second, "time before uploads leave the analyzing state")
	throttle := flag.Int("throttle-every", 0, "reject every Nth AI request with 429 (0 disables)")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	telemetry.Init(*logLevel)

	r := stub.New(stub.Options{
		AnalysisDelay: *delay,
		ThrottleEvery: *throttle,
	})

	log.Info().Str("addr", *addr).Msg("starting stub backend")
	if err := r.Run(*addr); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

package circuitbreaker

import (
	"github.com/alimikegami/point-of-sales/order-placement-service/config"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// CreateCircuitBreaker builds the breaker guarding order event publishing.
// It opens once conf.MinRequests publishes were seen and at least
// conf.FailureRatio of them failed, then lets conf.HalfOpenRequests trial requests
// through after conf.Timeout.
func CreateCircuitBreaker(name string, conf config.BreakerConfig) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:          name,
		MaxRequests:   conf.HalfOpenRequests,
		Timeout:       conf.Timeout,
		ReadyToTrip:   tripOnFailureRatio(conf.MinRequests, conf.FailureRatio),
		OnStateChange: logStateChange,
	})
}

func tripOnFailureRatio(minRequests uint32, failureRatio float64) func(counts gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		if counts.Requests == 0 || counts.Requests < minRequests {
			return false
		}

		return float64(counts.TotalFailures)/float64(counts.Requests) >= failureRatio
	}
}

func logStateChange(name string, from gobreaker.State, to gobreaker.State) {
	event := log.Info()
	if to == gobreaker.StateOpen {
		event = log.Warn()
	}

	event.Str("component", "CircuitBreaker").Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("breaker state changed")
}

package generator

import (
	"time"

	"github.com/rbhz/ankigen/app/clients/openai"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const defaultRetries = 3

// errInvalidFormat marks a response that failed structural validation
var errInvalidFormat = errors.New("invalid response format")

// errBudgetExhausted is returned when all attempts are spent; callers
// substitute a sentinel value and move on to the next item
var errBudgetExhausted = errors.New("retry budget exhausted")

// retrier drives the attempt loop around a single model call: capped
// exponential backoff on rate limiting, immediate retry on invalid
// format, fail-fast on any other error.
type retrier struct {
	retries int
	unit    time.Duration
	sleep   func(time.Duration)
}

func newRetrier() retrier {
	return retrier{retries: defaultRetries, unit: time.Second, sleep: time.Sleep}
}

// do runs call until it yields a valid response or the attempt budget is
// spent. valid may be nil when any response is acceptable.
func (r retrier) do(call func() (string, error), valid func(string) bool) (string, error) {
	for attempt := 0; attempt < r.retries; attempt++ {
		response, err := call()
		switch {
		case err == nil:
			if valid == nil || valid(response) {
				return response, nil
			}
			log.Debug().
				Int("attempt", attempt+1).
				Str("response", response).
				Err(errInvalidFormat).
				Msg("retrying model call")
		case errors.Is(err, openai.ErrRateLimited):
			log.Warn().
				Int("attempt", attempt+1).
				Dur("backoff", r.unit<<attempt).
				Msg("rate limit exceeded, backing off")
			r.sleep(r.unit << attempt)
		default:
			return "", err
		}
	}
	return "", errBudgetExhausted
}

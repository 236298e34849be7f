// Package ratelimit provides a sliding-window rate limiter for API calls.
//
// The limiter bounds the number of admissions within any trailing time
// interval, as opposed to fixed calendar buckets. Callers block in Wait
// until capacity is available:
//
//	limiter := ratelimit.NewLimiter(60, time.Minute)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
//	resp, err := callAPI()
//
// Wait is context-aware; pass context.Background() for the purely blocking
// form. Allow is the non-blocking variant.
package ratelimit

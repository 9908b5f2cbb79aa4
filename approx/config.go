// Package approx implements the transcendental approximation library:
// exp, log, reciprocal, inverse square root, square root, sine/cosine,
// sigmoid, tanh, erf, softmax and log-softmax, all expressed purely in
// terms of share.Tensor's public method surface (no access to its
// internals), with every numerical method's iteration counts governed by
// a single process-wide Config.
package approx

import "sync"

// Config holds every tunable of the approximation routines below. Its
// zero value is never used directly; call Current() or Default().
type Config struct {
	ExpIterations int

	ReciprocalMethod   string // "NR" or "log"
	ReciprocalNRIters  int
	ReciprocalLogIters int
	ReciprocalAllPos   bool
	ReciprocalInitial  *float64

	SqrtNRIters   int
	SqrtNRInitial *float64

	SigmoidTanhMethod string // "reciprocal" or "chebyshev"
	SigmoidTanhTerms  int

	LogIterations    int
	LogExpIterations int
	LogOrder         int

	TrigIterations int

	ErfIterations int
}

// Default returns the library's baseline configuration.
func Default() Config {
	return Config{
		ExpIterations: 8,

		ReciprocalMethod:   "NR",
		ReciprocalNRIters:  10,
		ReciprocalLogIters: 1,
		ReciprocalAllPos:   false,
		ReciprocalInitial:  nil,

		SqrtNRIters:   3,
		SqrtNRInitial: nil,

		SigmoidTanhMethod: "reciprocal",
		SigmoidTanhTerms:  32,

		LogIterations:    2,
		LogExpIterations: 8,
		LogOrder:         8,

		TrigIterations: 10,

		ErfIterations: 8,
	}
}

var (
	mu    sync.Mutex
	stack = []Config{Default()}
)

// Current returns the configuration in effect right now.
func Current() Config {
	mu.Lock()
	defer mu.Unlock()
	return stack[len(stack)-1]
}

// Push applies overrides on top of the current configuration and returns
// a restore function. The idiom is:
//
//	defer approx.Push(func(c *approx.Config) { c.ExpIterations = 12 })()
//
// which guarantees the override is popped on every exit path, including
// panics, mirroring a context-manager's __exit__.
func Push(overrides func(*Config)) func() {
	mu.Lock()
	next := stack[len(stack)-1]
	overrides(&next)
	stack = append(stack, next)
	mu.Unlock()
	return pop
}

func pop() {
	mu.Lock()
	if len(stack) > 1 {
		stack = stack[:len(stack)-1]
	}
	mu.Unlock()
}

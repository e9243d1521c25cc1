package agents

import (
	"errors"
	"fmt"

	"banditLab/business/env"
)

// ErrUnknownAgent is returned by New for names outside Names.
var ErrUnknownAgent = errors.New("unknown agent")

// Names lists every agent the factory can build, in display order.
var Names = []string{"random", "epsilon-greedy", "ucb", "linucb", "thompson"}

const (
	defaultEpsilon = 0.1
	defaultUCBC    = 1.0
	defaultAlpha   = 1.0
)

// New builds an agent by name, sized for the given environment config.
func New(name string, cfg env.Config, seed uint64) (Agent, error) {
	switch name {
	case "random":
		return NewRandom(cfg.NumActions, seed), nil
	case "epsilon-greedy":
		return NewEpsilonGreedy(cfg.NumContexts, cfg.NumActions, defaultEpsilon, seed), nil
	case "ucb":
		return NewUCB(cfg.NumContexts, cfg.NumActions, defaultUCBC, seed), nil
	case "linucb":
		return NewLinUCB(cfg.Dim, defaultAlpha), nil
	case "thompson":
		return NewThompson(cfg.Dim, seed), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownAgent, name)
	}
}

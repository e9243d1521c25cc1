package agents

import (
	"testing"

	"banditLab/business/env"
)

func testFeatures(numActions, dim int) [][]float64 {
	feats := make([][]float64, numActions)
	for a := range feats {
		feats[a] = make([]float64, dim)
		feats[a][a%dim] = 1
	}
	return feats
}

func TestFactoryBuildsEveryAgent(t *testing.T) {
	cfg := env.Config{NumActions: 3, NumContexts: 4, Dim: 5, Seed: 1, SigmaP: 1}

	for _, name := range Names {
		agent, err := New(name, cfg, 7)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if agent.Name() != name {
			t.Errorf("agent name = %q, want %q", agent.Name(), name)
		}
	}

	if _, err := New("nope", cfg, 7); err == nil {
		t.Error("New(unknown) should fail")
	}
}

func TestAgentsReturnValidActions(t *testing.T) {
	const (
		numActions  = 4
		numContexts = 3
		dim         = 4
	)
	feats := testFeatures(numActions, dim)

	cfg := env.Config{NumActions: numActions, NumContexts: numContexts, Dim: dim, Seed: 3, SigmaP: 1}
	for _, name := range Names {
		agent, err := New(name, cfg, 11)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}

		for i := 0; i < 200; i++ {
			ctx := i % numContexts
			action := agent.SelectAction(ctx, feats)
			if action < 0 || action >= numActions {
				t.Fatalf("%s returned action %d outside [0,%d)", name, action, numActions)
			}
			reward := 0.0
			if action == 1 {
				reward = 1.0
			}
			agent.Observe(ctx, action, reward, feats)
		}
	}
}

func TestEpsilonGreedyExploitsBestArm(t *testing.T) {
	feats := testFeatures(2, 2)
	agent := NewEpsilonGreedy(1, 2, 0, 5) // pure greedy

	// arm 1 pays, arm 0 does not
	agent.Observe(0, 0, 0, feats)
	agent.Observe(0, 1, 1, feats)

	for i := 0; i < 20; i++ {
		if got := agent.SelectAction(0, feats); got != 1 {
			t.Fatalf("greedy selection = %d, want 1", got)
		}
	}
}

func TestUCBTriesEveryArmFirst(t *testing.T) {
	const numActions = 5
	feats := testFeatures(numActions, 3)
	agent := NewUCB(1, numActions, 1.0, 9)

	seen := make(map[int]bool)
	for i := 0; i < numActions; i++ {
		action := agent.SelectAction(0, feats)
		if seen[action] {
			t.Fatalf("arm %d pulled twice before all arms tried", action)
		}
		seen[action] = true
		agent.Observe(0, action, 0, feats)
	}
}

func TestLinUCBLearnsRewardDirection(t *testing.T) {
	// two orthogonal arms; only arm 0's direction ever pays
	feats := [][]float64{{1, 0}, {0, 1}}
	agent := NewLinUCB(2, 0.1)

	for i := 0; i < 100; i++ {
		agent.Observe(0, 0, 1, feats)
		agent.Observe(0, 1, 0, feats)
	}

	if got := agent.SelectAction(0, feats); got != 0 {
		t.Errorf("LinUCB selection = %d, want 0 after observing arm 0 pay", got)
	}
}

func TestThompsonIsSeedDeterministic(t *testing.T) {
	feats := testFeatures(3, 4)

	a := NewThompson(4, 21)
	b := NewThompson(4, 21)

	for i := 0; i < 50; i++ {
		sa := a.SelectAction(0, feats)
		sb := b.SelectAction(0, feats)
		if sa != sb {
			t.Fatalf("step %d: identically seeded Thompson agents diverged (%d vs %d)", i, sa, sb)
		}
		a.Observe(0, sa, 1, feats)
		b.Observe(0, sb, 1, feats)
	}
}

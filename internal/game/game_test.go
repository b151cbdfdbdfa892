package game

import (
	"errors"
	"testing"

	"polemos/internal/automaton"
	"polemos/internal/model"
)

func TestPayoffTable(t *testing.T) {
	cases := []struct {
		a1, a2 model.Action
		p1, p2 float64
	}{
		{model.Cooperate, model.Cooperate, 3, 3},
		{model.Cooperate, model.Defect, 0, 4},
		{model.Defect, model.Cooperate, 4, 0},
		{model.Defect, model.Defect, 1, 1},
	}
	for _, tc := range cases {
		p1, p2 := PrisonersDilemma.Payoff(tc.a1, tc.a2)
		if p1 != tc.p1 || p2 != tc.p2 {
			t.Fatalf("payoff(%d,%d): got (%v,%v) want (%v,%v)", tc.a1, tc.a2, p1, p2, tc.p1, tc.p2)
		}
	}
}

func TestPayoffIsSymmetric(t *testing.T) {
	actions := []model.Action{model.Cooperate, model.Defect}
	for _, a1 := range actions {
		for _, a2 := range actions {
			p1, p2 := PrisonersDilemma.Payoff(a1, a2)
			q1, q2 := PrisonersDilemma.Payoff(a2, a1)
			if p1 != q2 || p2 != q1 {
				t.Fatalf("payoff(%d,%d)=(%v,%v) is not the swap of payoff(%d,%d)=(%v,%v)", a1, a2, p1, p2, a2, a1, q1, q2)
			}
		}
	}
}

func TestMatchPairAllDefectMirror(t *testing.T) {
	payoffs, err := PrisonersDilemma.MatchPair(automaton.AllDefect(), automaton.AllDefect(), 25)
	if err != nil {
		t.Fatalf("match pair: %v", err)
	}
	if len(payoffs) != 25 {
		t.Fatalf("round count: got %d want 25", len(payoffs))
	}
	for i, round := range payoffs {
		if round.P1 != 1 || round.P2 != 1 {
			t.Fatalf("round %d: got (%v,%v) want (1,1)", i, round.P1, round.P2)
		}
	}
}

func TestMatchPairAllCooperateMirror(t *testing.T) {
	payoffs, err := PrisonersDilemma.MatchPair(automaton.AllCooperate(), automaton.AllCooperate(), 25)
	if err != nil {
		t.Fatalf("match pair: %v", err)
	}
	for i, round := range payoffs {
		if round.P1 != 3 || round.P2 != 3 {
			t.Fatalf("round %d: got (%v,%v) want (3,3)", i, round.P1, round.P2)
		}
	}
}

func TestMatchPairAllDefectVsTitForTat(t *testing.T) {
	payoffs, err := PrisonersDilemma.MatchPair(automaton.AllDefect(), automaton.TitForTat(), 10)
	if err != nil {
		t.Fatalf("match pair: %v", err)
	}
	if payoffs[0].P1 != 4 || payoffs[0].P2 != 0 {
		t.Fatalf("round 1: got (%v,%v) want (4,0)", payoffs[0].P1, payoffs[0].P2)
	}
	for i := 1; i < 10; i++ {
		if payoffs[i].P1 != 1 || payoffs[i].P2 != 1 {
			t.Fatalf("round %d: got (%v,%v) want (1,1)", i+1, payoffs[i].P1, payoffs[i].P2)
		}
	}
}

func TestMatchPairTitForTatVsAllDefect(t *testing.T) {
	payoffs, err := PrisonersDilemma.MatchPair(automaton.TitForTat(), automaton.AllDefect(), 10)
	if err != nil {
		t.Fatalf("match pair: %v", err)
	}
	if payoffs[0].P1 != 0 || payoffs[0].P2 != 4 {
		t.Fatalf("round 1: got (%v,%v) want (0,4)", payoffs[0].P1, payoffs[0].P2)
	}
	for i := 1; i < 10; i++ {
		if payoffs[i].P1 != 1 || payoffs[i].P2 != 1 {
			t.Fatalf("round %d: got (%v,%v) want (1,1)", i+1, payoffs[i].P1, payoffs[i].P2)
		}
	}
}

func TestMatchPairGrimTriggerNeverForgives(t *testing.T) {
	// Tit-for-tat against grim trigger stays cooperative forever; all-defect
	// against grim trigger earns the temptation payoff exactly once.
	payoffs, err := PrisonersDilemma.MatchPair(automaton.TitForTat(), automaton.GrimTrigger(), 12)
	if err != nil {
		t.Fatalf("match pair: %v", err)
	}
	for i, round := range payoffs {
		if round.P1 != 3 || round.P2 != 3 {
			t.Fatalf("round %d: got (%v,%v) want (3,3)", i+1, round.P1, round.P2)
		}
	}

	payoffs, err = PrisonersDilemma.MatchPair(automaton.AllDefect(), automaton.GrimTrigger(), 12)
	if err != nil {
		t.Fatalf("match pair: %v", err)
	}
	if payoffs[0].P1 != 4 || payoffs[0].P2 != 0 {
		t.Fatalf("round 1: got (%v,%v) want (4,0)", payoffs[0].P1, payoffs[0].P2)
	}
	for i := 1; i < 12; i++ {
		if payoffs[i].P1 != 1 || payoffs[i].P2 != 1 {
			t.Fatalf("round %d: got (%v,%v) want (1,1)", i+1, payoffs[i].P1, payoffs[i].P2)
		}
	}
}

func TestMatchPairDoesNotMutateInputs(t *testing.T) {
	tft := automaton.TitForTat()
	defector := automaton.AllDefect()
	if _, err := PrisonersDilemma.MatchPair(tft, defector, 5); err != nil {
		t.Fatalf("match pair: %v", err)
	}
	if tft.Current != 0 {
		t.Fatalf("tit-for-tat input mutated: current=%d", tft.Current)
	}
}

func TestMatchPairRejectsNonPositiveRounds(t *testing.T) {
	for _, rounds := range []int{0, -1} {
		_, err := PrisonersDilemma.MatchPair(automaton.TitForTat(), automaton.TitForTat(), rounds)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("rounds=%d: got %v want ErrInvalidConfig", rounds, err)
		}
	}
}

func TestMatchPopulationPairsConsecutiveSlots(t *testing.T) {
	population := []model.Automaton{
		automaton.AllDefect(),
		automaton.TitForTat(),
		automaton.AllCooperate(),
		automaton.AllCooperate(),
	}
	totals, err := PrisonersDilemma.MatchPopulation(population, 10)
	if err != nil {
		t.Fatalf("match population: %v", err)
	}
	// Slot 0 vs 1: 4 + 9*1 = 13 against 0 + 9*1 = 9. Slot 2 vs 3: 10*3 = 30.
	want := []float64{13, 9, 30, 30}
	for i := range want {
		if totals[i] != want[i] {
			t.Fatalf("slot %d: got %v want %v (all: %v)", i, totals[i], want[i], totals)
		}
	}
}

func TestMatchPopulationRejectsOddSize(t *testing.T) {
	population := []model.Automaton{
		automaton.AllDefect(),
		automaton.TitForTat(),
		automaton.AllCooperate(),
	}
	_, err := PrisonersDilemma.MatchPopulation(population, 10)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("got %v want ErrInvalidConfig", err)
	}
}

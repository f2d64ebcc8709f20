package scheduling

import (
	"errors"
	"testing"

	"mechanio/models"
)

func TestFindTransition(t *testing.T) {
	tr, err := findTransition(ActionApproveScheduling, models.RoleWorkshop, models.StatusWaitingAppointment)
	if err != nil {
		t.Fatalf("findTransition: %v", err)
	}
	if tr.To != models.StatusScheduled {
		t.Errorf("To = %s, want Scheduled", tr.To)
	}

	// Same action, wrong role.
	if _, err := findTransition(ActionApproveScheduling, models.RoleCustomer, models.StatusWaitingAppointment); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("wrong role: err = %v, want ErrNotPermitted", err)
	}
	// Same action and role, wrong source state.
	if _, err := findTransition(ActionApproveScheduling, models.RoleWorkshop, models.StatusScheduled); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("wrong state: err = %v, want ErrNotPermitted", err)
	}
	// Unknown action.
	if _, err := findTransition(Action("teleport"), models.RoleAdmin, models.StatusScheduled); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("unknown action: err = %v, want ErrNotPermitted", err)
	}
}

func TestTransitionSteps(t *testing.T) {
	tr, err := findTransition(ActionSendBudget, models.RoleWorkshop, models.StatusWaitingForBudget)
	if err != nil {
		t.Fatalf("findTransition: %v", err)
	}
	steps := tr.steps()
	if len(steps) != 2 || steps[0] != models.StatusBudgetSent || steps[1] != models.StatusWaitingForBudgetApproval {
		t.Errorf("steps = %v", steps)
	}

	tr, err = findTransition(ActionRefuseScheduling, models.RoleWorkshop, models.StatusWaitingAppointment)
	if err != nil {
		t.Fatalf("findTransition: %v", err)
	}
	if steps := tr.steps(); len(steps) != 1 {
		t.Errorf("refusal should have no chain, got %v", steps)
	}
}

func TestNoTransitionsOutOfServiceFinished(t *testing.T) {
	for _, tr := range transitionTable {
		for _, from := range tr.From {
			if from == models.StatusServiceFinished {
				t.Errorf("transition %s must not leave ServiceFinished", tr.Action)
			}
		}
	}
}

func TestChainedTransitionsEndInRestStates(t *testing.T) {
	// The only dead ends are the deliberate terminal outcomes; every other
	// chain must land in a state some transition can leave.
	deadEnds := map[models.Status]bool{
		models.StatusServiceFinished:    true,
		models.StatusAppointmentRefused: true,
		models.StatusDidNotAttend:       true,
		models.StatusBudgetDisapprove:   true,
	}
	leavable := map[models.Status]bool{}
	for _, tr := range transitionTable {
		for _, from := range tr.From {
			leavable[from] = true
		}
	}
	for _, tr := range transitionTable {
		final := tr.To
		if len(tr.Then) > 0 {
			final = tr.Then[len(tr.Then)-1]
		}
		if !leavable[final] && !deadEnds[final] {
			t.Errorf("transition %s ends in %s, which nothing can leave", tr.Action, final)
		}
	}
}

package scheduling

import (
	"context"
	"errors"
	"testing"

	"mechanio/models"
)

func seedCompleted(env *testEnv) {
	env.seed(models.StatusWaitingForServiceApproval, func(s *models.Scheduling) {
		s.BudgetServices = quote
		s.MaintainedBudgetServices = quote
		s.TotalValue = 300
	})
}

func TestConfirmServiceApproval(t *testing.T) {
	env := newTestEnv()
	seedCompleted(env)

	s, err := env.svc.ConfirmService(context.Background(), customer, "s1", true, "", nil)
	if err != nil {
		t.Fatalf("ConfirmService: %v", err)
	}
	if s.Status != models.StatusServiceFinished {
		t.Errorf("status = %s, want ServiceFinished", s.Status)
	}
	if s.TotalValueToWorkshop != s.TotalValue {
		t.Errorf("payout = %v, want the full total %v", s.TotalValueToWorkshop, s.TotalValue)
	}
	if got := statuses(env.events.events); len(got) != 2 ||
		got[0] != models.StatusServiceApprovedByUser || got[1] != models.StatusServiceFinished {
		t.Errorf("events = %v", got)
	}
}

func TestConfirmServiceDisapprovalNeedsReason(t *testing.T) {
	env := newTestEnv()
	seedCompleted(env)
	ctx := context.Background()

	if _, err := env.svc.ConfirmService(ctx, customer, "s1", false, "  ", nil); !errors.Is(err, ErrMissingReason) {
		t.Fatalf("err = %v, want ErrMissingReason", err)
	}
	if len(env.events.events) != 0 {
		t.Error("rejected disapproval must not emit events")
	}

	s, err := env.svc.ConfirmService(ctx, customer, "s1", false, "engine still stalls", []string{"img-1"})
	if err != nil {
		t.Fatalf("ConfirmService: %v", err)
	}
	if s.Status != models.StatusServiceReprovedByUser {
		t.Errorf("status = %s, want ServiceReprovedByUser", s.Status)
	}
	if s.ReasonDisapproval != "engine still stalls" || len(s.ImagesDisapproval) != 1 {
		t.Errorf("reason = %q images = %v", s.ReasonDisapproval, s.ImagesDisapproval)
	}
}

func TestDisputeDisapprovedService(t *testing.T) {
	env := newTestEnv()
	env.seed(models.StatusServiceReprovedByUser, func(s *models.Scheduling) {
		s.ReasonDisapproval = "engine still stalls"
	})
	ctx := context.Background()

	if _, err := env.svc.DisputeDisapprovedService(ctx, workshop, "s1", "", nil); !errors.Is(err, ErrMissingDispute) {
		t.Fatalf("err = %v, want ErrMissingDispute", err)
	}

	s, err := env.svc.DisputeDisapprovedService(ctx, workshop, "s1", "stall is a pre-existing fault", []string{"img-2"})
	if err != nil {
		t.Fatalf("DisputeDisapprovedService: %v", err)
	}
	if s.Status != models.StatusWorkshopDispute {
		t.Errorf("status = %s, want WorkshopDispute", s.Status)
	}
	if s.Dispute == "" || len(s.ImagesDispute) != 1 {
		t.Errorf("dispute = %q images = %v", s.Dispute, s.ImagesDispute)
	}

	if len(env.events.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(env.events.events))
	}
	if p := env.events.events[0].Push; p == nil || p.Target != models.PushTargetAdminPool {
		t.Errorf("expected an admin pool push, got %+v", p)
	}
}

func seedDispute(env *testEnv) {
	env.seed(models.StatusWorkshopDispute, func(s *models.Scheduling) {
		s.BudgetServices = quote
		s.MaintainedBudgetServices = quote
		s.TotalValue = 300
		s.Dispute = "stall is a pre-existing fault"
	})
}

func TestAdminFullApproval(t *testing.T) {
	env := newTestEnv()
	seedDispute(env)

	s, err := env.svc.ApproveOrReproveService(context.Background(), admin, "s1", DecisionApprove, nil)
	if err != nil {
		t.Fatalf("ApproveOrReproveService: %v", err)
	}
	if s.Status != models.StatusServiceFinished {
		t.Errorf("status = %s, want ServiceFinished", s.Status)
	}
	if s.TotalValueToWorkshop != 300 || s.TotalRefundToProfile != 0 {
		t.Errorf("payout = %v refund = %v", s.TotalValueToWorkshop, s.TotalRefundToProfile)
	}
	if !s.ServiceFinishedByAdmin || s.ResolvedByAdminID != "adm1" {
		t.Errorf("admin stamp missing: finished=%v by=%q", s.ServiceFinishedByAdmin, s.ResolvedByAdminID)
	}
	if got := statuses(env.events.events); len(got) != 2 || got[0] != models.StatusServiceApprovedByAdmin {
		t.Errorf("events = %v", got)
	}
}

func TestAdminPartialApprovalSplitsMoney(t *testing.T) {
	env := newTestEnv()
	seedDispute(env)

	s, err := env.svc.ApproveOrReproveService(context.Background(), admin, "s1", DecisionApprovePartially, []string{"oil", "filter"})
	if err != nil {
		t.Fatalf("ApproveOrReproveService: %v", err)
	}
	if s.Status != models.StatusServiceFinished {
		t.Errorf("status = %s, want ServiceFinished", s.Status)
	}
	// 100 + 50 go to the workshop, the brake 150 comes back.
	if s.TotalValueToWorkshop != 150 {
		t.Errorf("payout = %v, want 150", s.TotalValueToWorkshop)
	}
	if s.TotalRefundToProfile != 150 {
		t.Errorf("refund = %v, want 150", s.TotalRefundToProfile)
	}
	if s.TotalValueToWorkshop+s.TotalRefundToProfile != 300 {
		t.Error("payout plus refund must equal the pre-resolution total")
	}
	if len(s.BudgetServicesApprovedByAdmin) != 2 {
		t.Errorf("approved set = %d, want 2", len(s.BudgetServicesApprovedByAdmin))
	}
	if got := statuses(env.events.events); len(got) != 2 || got[0] != models.StatusServiceApprovedPartiallyByAdmin {
		t.Errorf("events = %v", got)
	}
}

func TestAdminPartialApprovalGuards(t *testing.T) {
	env := newTestEnv()
	seedDispute(env)
	ctx := context.Background()

	if _, err := env.svc.ApproveOrReproveService(ctx, admin, "s1", DecisionApprovePartially, nil); !IsRuleError(err) {
		t.Errorf("empty list: err = %v, want a rule error", err)
	}
	if _, err := env.svc.ApproveOrReproveService(ctx, admin, "s1", DecisionApprovePartially, []string{"paint-job"}); !IsRuleError(err) {
		t.Errorf("unknown services: err = %v, want a rule error", err)
	}
	if _, err := env.svc.ApproveOrReproveService(ctx, admin, "s1", "split-the-difference", nil); !IsRuleError(err) {
		t.Errorf("unknown decision: err = %v, want a rule error", err)
	}
	if _, err := env.svc.ApproveOrReproveService(ctx, workshop, "s1", DecisionApprove, nil); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("workshop resolve: err = %v, want ErrNotPermitted", err)
	}
	if len(env.events.events) != 0 {
		t.Error("rejected resolutions must not emit events")
	}
}

func TestAdminReproval(t *testing.T) {
	env := newTestEnv()
	seedDispute(env)

	s, err := env.svc.ApproveOrReproveService(context.Background(), admin, "s1", DecisionReprove, nil)
	if err != nil {
		t.Fatalf("ApproveOrReproveService: %v", err)
	}
	if s.Status != models.StatusServiceFinished {
		t.Errorf("status = %s, want ServiceFinished", s.Status)
	}
	if s.TotalValueToWorkshop != 0 || s.TotalRefundToProfile != 300 {
		t.Errorf("payout = %v refund = %v, want full refund", s.TotalValueToWorkshop, s.TotalRefundToProfile)
	}
	if got := statuses(env.events.events); len(got) != 2 || got[0] != models.StatusServiceReprovedByAdmin {
		t.Errorf("events = %v", got)
	}
}

func TestSuggestFreeRepair(t *testing.T) {
	env := newTestEnv()
	env.seed(models.StatusServiceReprovedByUser, nil)

	s, err := env.svc.SuggestFreeRepair(context.Background(), workshop, "s1")
	if err != nil {
		t.Fatalf("SuggestFreeRepair: %v", err)
	}
	if s.Status != models.StatusWaitingAppointment {
		t.Errorf("status = %s, want WaitingAppointment", s.Status)
	}
	if !s.FreeRepair || !s.AwaitFreeRepairScheduling {
		t.Errorf("flags: freeRepair=%v await=%v", s.FreeRepair, s.AwaitFreeRepairScheduling)
	}
}

func TestTerminalStateIsFinal(t *testing.T) {
	env := newTestEnv()
	env.seed(models.StatusServiceFinished, nil)
	ctx := context.Background()

	if _, err := env.svc.ConfirmService(ctx, customer, "s1", true, "", nil); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("confirm on finished: err = %v", err)
	}
	if _, err := env.svc.ChangeSchedulingStatus(ctx, workshop, "s1", models.StatusServiceInProgress); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("status change on finished: err = %v", err)
	}
	if len(env.events.events) != 0 {
		t.Error("terminal state must not emit events")
	}
}

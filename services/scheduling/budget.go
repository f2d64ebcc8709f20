package scheduling

import "mechanio/models"

// sumValues totals the quoted values of a budget service set.
func sumValues(services []models.BudgetService) float64 {
	var total float64
	for _, s := range services {
		total += s.Value
	}
	return total
}

// recomputeTotal sets TotalValue from the considered service set plus the
// diagnostic value. The considered set depends on the budget phase: the full
// quote while pending, the maintained subset after customer approval, the
// admin-approved subset after dispute resolution. TotalValue is never hand-set
// anywhere else.
func recomputeTotal(s *models.Scheduling) {
	considered := s.BudgetServices
	switch {
	case len(s.BudgetServicesApprovedByAdmin) > 0 || s.ServiceFinishedByAdmin:
		considered = s.BudgetServicesApprovedByAdmin
	case s.MaintainedBudgetServices != nil:
		considered = s.MaintainedBudgetServices
	}
	s.TotalValue = sumValues(considered) + s.DiagnosticValue
}

// splitBudgetServices partitions the quoted services into the kept subset and
// the rest, preserving quote order.
func splitBudgetServices(quoted []models.BudgetService, keptIDs []string) (kept, excluded []models.BudgetService) {
	keep := make(map[string]bool, len(keptIDs))
	for _, id := range keptIDs {
		keep[id] = true
	}
	for _, s := range quoted {
		if keep[s.ServiceID] {
			kept = append(kept, s)
		} else {
			excluded = append(excluded, s)
		}
	}
	return kept, excluded
}

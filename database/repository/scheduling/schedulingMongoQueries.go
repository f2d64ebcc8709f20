package schedulingRepo

import (
	"mechanio/models"

	"go.mongodb.org/mongo-driver/bson"
)

// committedStatuses is the set of statuses that occupy a slot on the workshop
// agenda, kept in sync with models.Status.IsCommitted.
func committedStatuses() []models.Status {
	return []models.Status{
		models.StatusScheduled,
		models.StatusAppointmentRefused,
		models.StatusWaitingStart,
		models.StatusWaitingForPart,
		models.StatusServiceInProgress,
		models.StatusScheduleCompleted,
		models.StatusServiceCompleted,
		models.StatusWaitingForServiceApproval,
		models.StatusServiceReprovedByUser,
		models.StatusServiceApprovedByUser,
		models.StatusWorkshopDispute,
		models.StatusServiceApprovedByAdmin,
		models.StatusServiceApprovedPartiallyByAdmin,
		models.StatusServiceReprovedByAdmin,
		models.StatusServiceFinished,
		models.StatusDidNotAttend,
	}
}

// buildFilter translates a Filter into a bson document.
func buildFilter(f Filter) bson.M {
	q := bson.M{}
	if f.WorkshopID != "" {
		q["workshop_id"] = f.WorkshopID
	}
	if f.ProfileID != "" {
		q["profile_id"] = f.ProfileID
	}
	if len(f.Statuses) > 0 {
		q["status"] = bson.M{"$in": f.Statuses}
	} else if f.CommittedOnly {
		q["status"] = bson.M{"$in": committedStatuses()}
	}
	if f.Date != nil {
		q["date"] = *f.Date
	} else if f.From != nil || f.To != nil {
		rng := bson.M{}
		if f.From != nil {
			rng["$gte"] = *f.From
		}
		if f.To != nil {
			rng["$lt"] = *f.To
		}
		q["date"] = rng
	}
	return q
}

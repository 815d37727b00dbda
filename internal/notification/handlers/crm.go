package handlers

import (
	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/models"
)

func crmHandlers(lookup Lookup) []Handler {
	return []Handler{
		newHandler(models.KeyNewLead, lookup,
			[]string{"lead_name", "lead_email", "user_name"},
			func(j joins, p events.LeadCreatedPayload) (models.Vars, bool) {
				if p.Lead == nil || !present(p.Lead.Name) {
					return nil, false
				}
				user, ok := j.required(EntityUser, p.Lead.UserID)
				if !ok {
					return nil, false
				}
				return models.Vars{
					"lead_name":  p.Lead.Name,
					"lead_email": p.Lead.Email,
					"user_name":  user,
				}, true
			}),

		newHandler(models.KeyLeadToDeal, lookup,
			[]string{"lead_name", "deal_name"},
			func(_ joins, p events.LeadConvertedPayload) (models.Vars, bool) {
				if p.Lead == nil || p.Deal == nil || !present(p.Lead.Name, p.Deal.Name) {
					return nil, false
				}
				return models.Vars{
					"lead_name": p.Lead.Name,
					"deal_name": p.Deal.Name,
				}, true
			}),

		newHandler(models.KeyLeadMoved, lookup,
			[]string{"lead_name", "old_stage", "new_stage"},
			func(j joins, p events.LeadMovedPayload) (models.Vars, bool) {
				if p.Lead == nil || !present(p.Lead.Name) {
					return nil, false
				}
				oldStage, okOld := j.required(EntityLeadStage, p.OldStageID)
				newStage, okNew := j.required(EntityLeadStage, p.NewStageID)
				if !okOld || !okNew {
					return nil, false
				}
				return models.Vars{
					"lead_name": p.Lead.Name,
					"old_stage": oldStage,
					"new_stage": newStage,
				}, true
			}),

		// The stock "New Deal" message is static; nothing is read from the payload.
		newHandler(models.KeyNewDeal, lookup,
			nil,
			func(_ joins, _ events.DealCreatedPayload) (models.Vars, bool) {
				return models.Vars{}, true
			}),

		newHandler(models.KeyDealMoved, lookup,
			[]string{"deal_name", "old_stage", "new_stage"},
			func(j joins, p events.DealMovedPayload) (models.Vars, bool) {
				if p.Deal == nil || !present(p.Deal.Name) {
					return nil, false
				}
				oldStage, okOld := j.required(EntityDealStage, p.OldStageID)
				newStage, okNew := j.required(EntityDealStage, p.NewStageID)
				if !okOld || !okNew {
					return nil, false
				}
				return models.Vars{
					"deal_name": p.Deal.Name,
					"old_stage": oldStage,
					"new_stage": newStage,
				}, true
			}),

		newHandler(models.KeyNewTask, lookup,
			[]string{"task_name", "deal_name", "due_date"},
			func(_ joins, p events.DealTaskCreatedPayload) (models.Vars, bool) {
				if p.Deal == nil || !present(p.TaskName, p.Deal.Name) {
					return nil, false
				}
				return models.Vars{
					"task_name": p.TaskName,
					"deal_name": p.Deal.Name,
					"due_date":  p.DueDate,
				}, true
			}),
	}
}

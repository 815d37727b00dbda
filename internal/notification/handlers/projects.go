package handlers

import (
	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/models"
)

func projectHandlers(lookup Lookup) []Handler {
	return []Handler{
		newHandler(models.KeyNewProject, lookup,
			[]string{"project_name"},
			func(_ joins, p events.ProjectCreatedPayload) (models.Vars, bool) {
				if !present(p.Name) {
					return nil, false
				}
				return models.Vars{"project_name": p.Name}, true
			}),

		newHandler(models.KeyNewMilestone, lookup,
			[]string{"milestone_title", "project_name", "milestone_cost"},
			func(j joins, p events.MilestoneCreatedPayload) (models.Vars, bool) {
				project, ok := j.required(EntityProject, p.ProjectID)
				if !ok || !present(p.Title) {
					return nil, false
				}
				return models.Vars{
					"milestone_title": p.Title,
					"project_name":    project,
					"milestone_cost":  p.Cost,
				}, true
			}),

		newHandler(models.KeyTaskStageUpdated, lookup,
			[]string{"task_title", "project_name", "old_stage", "new_stage"},
			func(j joins, p events.TaskStageUpdatedPayload) (models.Vars, bool) {
				if !present(p.TaskTitle) {
					return nil, false
				}
				oldStage, okOld := j.required(EntityTaskStage, p.OldStageID)
				newStage, okNew := j.required(EntityTaskStage, p.NewStageID)
				if !okOld || !okNew {
					return nil, false
				}
				return models.Vars{
					"task_title":   p.TaskTitle,
					"project_name": j.optional(EntityProject, p.ProjectID),
					"old_stage":    oldStage,
					"new_stage":    newStage,
				}, true
			}),

		newHandler(models.KeyNewBug, lookup,
			[]string{"bug_title", "project_name", "assignee_name"},
			func(j joins, p events.BugCreatedPayload) (models.Vars, bool) {
				project, ok := j.required(EntityProject, p.ProjectID)
				if !ok || !present(p.Title) {
					return nil, false
				}
				return models.Vars{
					"bug_title":     p.Title,
					"project_name":  project,
					"assignee_name": j.optional(EntityUser, p.AssigneeID),
				}, true
			}),
	}
}

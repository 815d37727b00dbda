package handlers

import (
	"strconv"

	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/models"
)

func recruitmentHandlers(lookup Lookup) []Handler {
	return []Handler{
		newHandler(models.KeyNewJob, lookup,
			[]string{"job_title", "branch_name", "positions"},
			func(j joins, p events.JobCreatedPayload) (models.Vars, bool) {
				if !present(p.Title) {
					return nil, false
				}
				positions := ""
				if p.Positions > 0 {
					positions = strconv.Itoa(p.Positions)
				}
				return models.Vars{
					"job_title":   p.Title,
					"branch_name": j.optional(EntityBranch, p.BranchID),
					"positions":   positions,
				}, true
			}),

		newHandler(models.KeyNewJobApplication, lookup,
			[]string{"applicant_name", "job_title"},
			func(j joins, p events.JobApplicationSubmittedPayload) (models.Vars, bool) {
				job, ok := j.required(EntityJob, p.JobID)
				if !ok || !present(p.ApplicantName) {
					return nil, false
				}
				return models.Vars{
					"applicant_name": p.ApplicantName,
					"job_title":      job,
				}, true
			}),

		newHandler(models.KeyInterviewSchedule, lookup,
			[]string{"applicant_name", "date", "time", "interviewer_name"},
			func(j joins, p events.InterviewScheduledPayload) (models.Vars, bool) {
				if !present(p.ApplicantName, p.Date) {
					return nil, false
				}
				return models.Vars{
					"applicant_name":   p.ApplicantName,
					"date":             p.Date,
					"time":             p.Time,
					"interviewer_name": j.optional(EntityUser, p.InterviewerID),
				}, true
			}),

		newHandler(models.KeyConvertToEmployee, lookup,
			[]string{"applicant_name", "job_title"},
			func(j joins, p events.ApplicantHiredPayload) (models.Vars, bool) {
				if !present(p.ApplicantName) {
					return nil, false
				}
				return models.Vars{
					"applicant_name": p.ApplicantName,
					"job_title":      j.optional(EntityJob, p.JobID),
				}, true
			}),
	}
}

package handlers

import (
	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/models"
)

func hrHandlers(lookup Lookup) []Handler {
	return []Handler{
		newHandler(models.KeyNewEmployee, lookup,
			[]string{"employee_name", "branch_name", "department_name"},
			func(j joins, p events.EmployeeCreatedPayload) (models.Vars, bool) {
				if p.Employee == nil || !present(p.Employee.Name) {
					return nil, false
				}
				return models.Vars{
					"employee_name":   p.Employee.Name,
					"branch_name":     j.optional(EntityBranch, p.Employee.BranchID),
					"department_name": j.optional(EntityDepartment, p.Employee.DepartmentID),
				}, true
			}),

		// School workspaces track teachers as employees; same event, its own key.
		newHandler(models.KeyNewTeacher, lookup,
			[]string{"teacher_name", "branch_name"},
			func(j joins, p events.EmployeeCreatedPayload) (models.Vars, bool) {
				if p.Employee == nil || !present(p.Employee.Name) {
					return nil, false
				}
				return models.Vars{
					"teacher_name": p.Employee.Name,
					"branch_name":  j.optional(EntityBranch, p.Employee.BranchID),
				}, true
			}),

		newHandler(models.KeyLeaveStatus, lookup,
			[]string{"employee_name", "leave_type", "start_date", "end_date", "leave_status"},
			func(j joins, p events.LeaveStatusChangedPayload) (models.Vars, bool) {
				if !present(p.Status) {
					return nil, false
				}
				employee, ok := j.required(EntityEmployee, p.EmployeeID)
				if !ok {
					return nil, false
				}
				return models.Vars{
					"employee_name": employee,
					"leave_type":    p.LeaveType,
					"start_date":    p.StartDate,
					"end_date":      p.EndDate,
					"leave_status":  p.Status,
				}, true
			}),

		newHandler(models.KeyNewPayslip, lookup,
			[]string{"employee_name", "payslip_month", "net_salary"},
			func(j joins, p events.PayslipSentPayload) (models.Vars, bool) {
				employee, ok := j.required(EntityEmployee, p.EmployeeID)
				if !ok || !present(p.Month) {
					return nil, false
				}
				return models.Vars{
					"employee_name": employee,
					"payslip_month": p.Month,
					"net_salary":    p.NetSalary,
				}, true
			}),

		newHandler(models.KeyNewAward, lookup,
			[]string{"award_name", "employee_name", "award_date"},
			func(j joins, p events.AwardCreatedPayload) (models.Vars, bool) {
				employee, ok := j.required(EntityEmployee, p.EmployeeID)
				if !ok || !present(p.AwardType) {
					return nil, false
				}
				return models.Vars{
					"award_name":    p.AwardType,
					"employee_name": employee,
					"award_date":    p.Date,
				}, true
			}),

		newHandler(models.KeyNewAnnouncement, lookup,
			[]string{"announcement_title", "branch_name", "start_date", "end_date"},
			func(j joins, p events.AnnouncementCreatedPayload) (models.Vars, bool) {
				if !present(p.Title) {
					return nil, false
				}
				return models.Vars{
					"announcement_title": p.Title,
					"branch_name":        j.optional(EntityBranch, p.BranchID),
					"start_date":         p.StartDate,
					"end_date":           p.EndDate,
				}, true
			}),

		newHandler(models.KeyNewHoliday, lookup,
			[]string{"holiday_name", "start_date", "end_date"},
			func(_ joins, p events.HolidayCreatedPayload) (models.Vars, bool) {
				if !present(p.Occasion, p.StartDate) {
					return nil, false
				}
				return models.Vars{
					"holiday_name": p.Occasion,
					"start_date":   p.StartDate,
					"end_date":     p.EndDate,
				}, true
			}),

		newHandler(models.KeyNewMeeting, lookup,
			[]string{"meeting_title", "date", "time", "branch_name"},
			func(j joins, p events.MeetingCreatedPayload) (models.Vars, bool) {
				if !present(p.Title, p.Date) {
					return nil, false
				}
				return models.Vars{
					"meeting_title": p.Title,
					"date":          p.Date,
					"time":          p.Time,
					"branch_name":   j.optional(EntityBranch, p.BranchID),
				}, true
			}),

		newHandler(models.KeyNewCompanyPolicy, lookup,
			[]string{"policy_name", "branch_name"},
			func(j joins, p events.CompanyPolicyCreatedPayload) (models.Vars, bool) {
				if !present(p.Title) {
					return nil, false
				}
				return models.Vars{
					"policy_name": p.Title,
					"branch_name": j.optional(EntityBranch, p.BranchID),
				}, true
			}),

		newHandler(models.KeyEmployeeTrip, lookup,
			[]string{"employee_name", "place", "start_date", "end_date"},
			func(j joins, p events.TripCreatedPayload) (models.Vars, bool) {
				employee, ok := j.required(EntityEmployee, p.EmployeeID)
				if !ok || !present(p.Place) {
					return nil, false
				}
				return models.Vars{
					"employee_name": employee,
					"place":         p.Place,
					"start_date":    p.StartDate,
					"end_date":      p.EndDate,
				}, true
			}),
	}
}

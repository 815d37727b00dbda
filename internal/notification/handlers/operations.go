package handlers

import (
	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/models"
)

// operationsHandlers covers appointments, work orders and support tickets.
// Appointment and work order events usually carry an owner tenant.
func operationsHandlers(lookup Lookup) []Handler {
	return []Handler{
		newHandler(models.KeyNewAppointment, lookup,
			[]string{"appointment_name", "schedule_name", "date", "time"},
			func(_ joins, p events.AppointmentCreatedPayload) (models.Vars, bool) {
				if !present(p.Name, p.Date) {
					return nil, false
				}
				return models.Vars{
					"appointment_name": p.Name,
					"schedule_name":    p.ScheduleName,
					"date":             p.Date,
					"time":             p.Time,
				}, true
			}),

		newHandler(models.KeyNewWorkOrder, lookup,
			[]string{"work_order_title", "priority", "assignee_name", "due_date"},
			func(j joins, p events.WorkOrderCreatedPayload) (models.Vars, bool) {
				if !present(p.Title) {
					return nil, false
				}
				return models.Vars{
					"work_order_title": p.Title,
					"priority":         p.Priority,
					"assignee_name":    j.optional(EntityUser, p.AssigneeID),
					"due_date":         p.DueDate,
				}, true
			}),

		newHandler(models.KeyNewTicket, lookup,
			[]string{"ticket_number", "ticket_name", "subject", "category"},
			func(_ joins, p events.TicketCreatedPayload) (models.Vars, bool) {
				if !present(p.Number, p.Name, p.Subject) {
					return nil, false
				}
				return models.Vars{
					"ticket_number": p.Number,
					"ticket_name":   p.Name,
					"subject":       p.Subject,
					"category":      p.Category,
				}, true
			}),
	}
}

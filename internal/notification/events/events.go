// Package events defines the domain event vocabulary business modules publish
// after a committed state change.
//
// Event types form a closed, versioned vocabulary shared between producers and
// the notification subscription table. Adding a notification means adding a
// Type, its payload struct, a handler and a template; nothing else changes.
package events

import (
	"context"
	"time"

	id "bizsuite/pkg/domain"
	"bizsuite/pkg/requestcontext"
)

// Type discriminates domain events. Values are part of the wire format.
type Type string

// HRM
const (
	EmployeeCreated      Type = "employee.created"
	LeaveStatusChanged   Type = "leave.status_changed"
	PayslipSent          Type = "payslip.sent"
	AwardCreated         Type = "award.created"
	AnnouncementCreated  Type = "announcement.created"
	HolidayCreated       Type = "holiday.created"
	MeetingCreated       Type = "meeting.created"
	CompanyPolicyCreated Type = "company_policy.created"
	TripCreated          Type = "trip.created"
)

// CRM
const (
	LeadCreated     Type = "lead.created"
	LeadConverted   Type = "lead.converted"
	LeadMoved       Type = "lead.moved"
	DealCreated     Type = "deal.created"
	DealMoved       Type = "deal.moved"
	DealTaskCreated Type = "deal_task.created"
)

// Projects
const (
	ProjectCreated   Type = "project.created"
	MilestoneCreated Type = "milestone.created"
	TaskStageUpdated Type = "task.stage_updated"
	BugCreated       Type = "bug.created"
)

// Accounting and billing
const (
	CustomerCreated       Type = "customer.created"
	InvoiceCreated        Type = "invoice.created"
	InvoicePaymentCreated Type = "invoice_payment.created"
	BillCreated           Type = "bill.created"
	RevenueCreated        Type = "revenue.created"
	ProposalStatusUpdated Type = "proposal.status_updated"
	ContractCreated       Type = "contract.created"
)

// POS
const (
	PurchaseCreated  Type = "purchase.created"
	WarehouseCreated Type = "warehouse.created"
	PosSaleCreated   Type = "pos_sale.created"
)

// Recruitment
const (
	JobCreated              Type = "job.created"
	JobApplicationSubmitted Type = "job_application.submitted"
	InterviewScheduled      Type = "interview.scheduled"
	ApplicantHired          Type = "applicant.hired"
)

// Appointments, work orders and support
const (
	AppointmentCreated Type = "appointment.created"
	WorkOrderCreated   Type = "work_order.created"
	TicketCreated      Type = "ticket.created"
)

// ownerTypes are the event types whose notification belongs to a tenant other
// than the actor: an appointment or work order booked into someone else's
// workspace.
var ownerTypes = map[Type]bool{
	AppointmentCreated: true,
	WorkOrderCreated:   true,
}

// AllowsOwner reports whether events of type t may carry an OwnerTenantID.
func AllowsOwner(t Type) bool {
	return ownerTypes[t]
}

// Payload is implemented by every event payload struct.
type Payload interface {
	EventType() Type
}

// Event is an immutable record of a business occurrence. Payload holds one of
// the structs in payloads.go (by value or pointer).
type Event struct {
	ID         id.EventID
	Type       Type
	TenantID   id.TenantID
	OccurredAt time.Time
	Payload    any

	// OwnerTenantID, when set, names the tenant that owns the notification
	// instead of the acting tenant (appointments and work orders notify the
	// creator's workspace).
	OwnerTenantID id.TenantID
}

// New builds an event for the acting tenant. The type is taken from the payload.
func New(tenantID id.TenantID, payload Payload) Event {
	return Event{
		ID:         id.NewEventID(),
		Type:       payload.EventType(),
		TenantID:   tenantID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// WithOwner returns a copy of e addressed to the owner tenant.
func (e Event) WithOwner(owner id.TenantID) Event {
	e.OwnerTenantID = owner
	return e
}

// NotifyTenant is the tenant whose settings gate delivery: the explicit owner
// when present, the acting tenant otherwise.
func (e Event) NotifyTenant() id.TenantID {
	if !e.OwnerTenantID.IsNil() {
		return e.OwnerTenantID
	}
	return e.TenantID
}

// Stamp fills what a publisher may leave out: the tenant from the request
// when neither tenant field is set, a fresh ID and the occurrence time.
func Stamp(ctx context.Context, e Event) Event {
	if e.TenantID.IsNil() && e.OwnerTenantID.IsNil() {
		e.TenantID = requestcontext.TenantID(ctx)
	}
	if e.ID.IsNil() {
		e.ID = id.NewEventID()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = requestcontext.Now(ctx)
	}
	return e
}

// Publisher is what business modules depend on. Implementations never report
// delivery outcome back to the caller.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

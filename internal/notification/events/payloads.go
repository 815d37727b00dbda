package events

// Payload structs carry identifiers and already-loaded aggregate snapshots.
// Related entity ids are opaque strings owned by the producing module; any
// field may be zero and consumers must tolerate that.

// Employee is the HR snapshot embedded in several payloads.
type Employee struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	BranchID     string `json:"branch_id,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
}

// Lead is the CRM lead snapshot.
type Lead struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Subject string `json:"subject,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

// Deal is the CRM deal snapshot.
type Deal struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Price string `json:"price,omitempty"`
}

// Invoice is the accounting invoice snapshot.
type Invoice struct {
	ID         string `json:"id,omitempty"`
	Number     string `json:"number"`
	CustomerID string `json:"customer_id,omitempty"`
	IssueDate  string `json:"issue_date,omitempty"`
	DueDate    string `json:"due_date,omitempty"`
	Total      string `json:"total,omitempty"`
}

type EmployeeCreatedPayload struct {
	Employee *Employee `json:"employee"`
}

type LeaveStatusChangedPayload struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type,omitempty"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
}

type PayslipSentPayload struct {
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"`
	NetSalary  string `json:"net_salary,omitempty"`
}

type AwardCreatedPayload struct {
	EmployeeID string `json:"employee_id"`
	AwardType  string `json:"award_type"`
	Date       string `json:"date,omitempty"`
}

type AnnouncementCreatedPayload struct {
	Title     string `json:"title"`
	BranchID  string `json:"branch_id,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type HolidayCreatedPayload struct {
	Occasion  string `json:"occasion"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
}

type MeetingCreatedPayload struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time,omitempty"`
	BranchID string `json:"branch_id,omitempty"`
}

type CompanyPolicyCreatedPayload struct {
	Title    string `json:"title"`
	BranchID string `json:"branch_id,omitempty"`
}

type TripCreatedPayload struct {
	EmployeeID string `json:"employee_id"`
	Place      string `json:"place"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
}

type LeadCreatedPayload struct {
	Lead *Lead `json:"lead"`
}

type LeadConvertedPayload struct {
	Lead *Lead `json:"lead"`
	Deal *Deal `json:"deal"`
}

type LeadMovedPayload struct {
	Lead       *Lead  `json:"lead"`
	OldStageID string `json:"old_stage_id"`
	NewStageID string `json:"new_stage_id"`
}

type DealCreatedPayload struct {
	Deal *Deal `json:"deal"`
}

type DealMovedPayload struct {
	Deal       *Deal  `json:"deal"`
	OldStageID string `json:"old_stage_id"`
	NewStageID string `json:"new_stage_id"`
}

type DealTaskCreatedPayload struct {
	Deal     *Deal  `json:"deal"`
	TaskName string `json:"task_name"`
	DueDate  string `json:"due_date,omitempty"`
}

type ProjectCreatedPayload struct {
	ProjectID string `json:"project_id,omitempty"`
	Name      string `json:"name"`
}

type MilestoneCreatedPayload struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Cost      string `json:"cost,omitempty"`
}

type TaskStageUpdatedPayload struct {
	ProjectID  string `json:"project_id,omitempty"`
	TaskTitle  string `json:"task_title"`
	OldStageID string `json:"old_stage_id"`
	NewStageID string `json:"new_stage_id"`
}

type BugCreatedPayload struct {
	ProjectID  string `json:"project_id"`
	Title      string `json:"title"`
	AssigneeID string `json:"assignee_id,omitempty"`
}

type CustomerCreatedPayload struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type InvoiceCreatedPayload struct {
	Invoice *Invoice `json:"invoice"`
}

type InvoicePaymentCreatedPayload struct {
	Invoice *Invoice `json:"invoice"`
	Amount  string   `json:"amount"`
	Date    string   `json:"date,omitempty"`
}

type BillCreatedPayload struct {
	Number   string `json:"number"`
	VendorID string `json:"vendor_id"`
	Total    string `json:"total,omitempty"`
}

type RevenueCreatedPayload struct {
	Amount     string `json:"amount"`
	CustomerID string `json:"customer_id,omitempty"`
	Date       string `json:"date,omitempty"`
}

type ProposalStatusUpdatedPayload struct {
	Number     string `json:"number"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
}

type ContractCreatedPayload struct {
	Subject      string `json:"subject"`
	ClientUserID string `json:"client_user_id"`
	Value        string `json:"value,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
}

type PurchaseCreatedPayload struct {
	Number      string `json:"number"`
	VendorID    string `json:"vendor_id"`
	WarehouseID string `json:"warehouse_id,omitempty"`
}

type WarehouseCreatedPayload struct {
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

type PosSaleCreatedPayload struct {
	Number     string `json:"number"`
	CustomerID string `json:"customer_id,omitempty"`
	Total      string `json:"total,omitempty"`
}

type JobCreatedPayload struct {
	Title     string `json:"title"`
	BranchID  string `json:"branch_id,omitempty"`
	Positions int    `json:"positions,omitempty"`
}

type JobApplicationSubmittedPayload struct {
	ApplicantName string `json:"applicant_name"`
	JobID         string `json:"job_id"`
}

type InterviewScheduledPayload struct {
	ApplicantName string `json:"applicant_name"`
	Date          string `json:"date"`
	Time          string `json:"time,omitempty"`
	InterviewerID string `json:"interviewer_id,omitempty"`
}

type ApplicantHiredPayload struct {
	ApplicantName string `json:"applicant_name"`
	JobID         string `json:"job_id,omitempty"`
}

type AppointmentCreatedPayload struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Date         string `json:"date"`
	Time         string `json:"time,omitempty"`
	ScheduleName string `json:"schedule_name,omitempty"`
}

type WorkOrderCreatedPayload struct {
	Title      string `json:"title"`
	Priority   string `json:"priority,omitempty"`
	AssigneeID string `json:"assignee_id,omitempty"`
	DueDate    string `json:"due_date,omitempty"`
}

type TicketCreatedPayload struct {
	Number   string `json:"number"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Subject  string `json:"subject"`
	Category string `json:"category,omitempty"`
}

func (EmployeeCreatedPayload) EventType() Type         { return EmployeeCreated }
func (LeaveStatusChangedPayload) EventType() Type      { return LeaveStatusChanged }
func (PayslipSentPayload) EventType() Type             { return PayslipSent }
func (AwardCreatedPayload) EventType() Type            { return AwardCreated }
func (AnnouncementCreatedPayload) EventType() Type     { return AnnouncementCreated }
func (HolidayCreatedPayload) EventType() Type          { return HolidayCreated }
func (MeetingCreatedPayload) EventType() Type          { return MeetingCreated }
func (CompanyPolicyCreatedPayload) EventType() Type    { return CompanyPolicyCreated }
func (TripCreatedPayload) EventType() Type             { return TripCreated }
func (LeadCreatedPayload) EventType() Type             { return LeadCreated }
func (LeadConvertedPayload) EventType() Type           { return LeadConverted }
func (LeadMovedPayload) EventType() Type               { return LeadMoved }
func (DealCreatedPayload) EventType() Type             { return DealCreated }
func (DealMovedPayload) EventType() Type               { return DealMoved }
func (DealTaskCreatedPayload) EventType() Type         { return DealTaskCreated }
func (ProjectCreatedPayload) EventType() Type          { return ProjectCreated }
func (MilestoneCreatedPayload) EventType() Type        { return MilestoneCreated }
func (TaskStageUpdatedPayload) EventType() Type        { return TaskStageUpdated }
func (BugCreatedPayload) EventType() Type              { return BugCreated }
func (CustomerCreatedPayload) EventType() Type         { return CustomerCreated }
func (InvoiceCreatedPayload) EventType() Type          { return InvoiceCreated }
func (InvoicePaymentCreatedPayload) EventType() Type   { return InvoicePaymentCreated }
func (BillCreatedPayload) EventType() Type             { return BillCreated }
func (RevenueCreatedPayload) EventType() Type          { return RevenueCreated }
func (ProposalStatusUpdatedPayload) EventType() Type   { return ProposalStatusUpdated }
func (ContractCreatedPayload) EventType() Type         { return ContractCreated }
func (PurchaseCreatedPayload) EventType() Type         { return PurchaseCreated }
func (WarehouseCreatedPayload) EventType() Type        { return WarehouseCreated }
func (PosSaleCreatedPayload) EventType() Type          { return PosSaleCreated }
func (JobCreatedPayload) EventType() Type              { return JobCreated }
func (JobApplicationSubmittedPayload) EventType() Type { return JobApplicationSubmitted }
func (InterviewScheduledPayload) EventType() Type      { return InterviewScheduled }
func (ApplicantHiredPayload) EventType() Type          { return ApplicantHired }
func (AppointmentCreatedPayload) EventType() Type      { return AppointmentCreated }
func (WorkOrderCreatedPayload) EventType() Type        { return WorkOrderCreated }
func (TicketCreatedPayload) EventType() Type           { return TicketCreated }

// registered lists one zero value per payload type; the envelope decoder
// builds its factory table from it.
var registered = []Payload{
	EmployeeCreatedPayload{},
	LeaveStatusChangedPayload{},
	PayslipSentPayload{},
	AwardCreatedPayload{},
	AnnouncementCreatedPayload{},
	HolidayCreatedPayload{},
	MeetingCreatedPayload{},
	CompanyPolicyCreatedPayload{},
	TripCreatedPayload{},
	LeadCreatedPayload{},
	LeadConvertedPayload{},
	LeadMovedPayload{},
	DealCreatedPayload{},
	DealMovedPayload{},
	DealTaskCreatedPayload{},
	ProjectCreatedPayload{},
	MilestoneCreatedPayload{},
	TaskStageUpdatedPayload{},
	BugCreatedPayload{},
	CustomerCreatedPayload{},
	InvoiceCreatedPayload{},
	InvoicePaymentCreatedPayload{},
	BillCreatedPayload{},
	RevenueCreatedPayload{},
	ProposalStatusUpdatedPayload{},
	ContractCreatedPayload{},
	PurchaseCreatedPayload{},
	WarehouseCreatedPayload{},
	PosSaleCreatedPayload{},
	JobCreatedPayload{},
	JobApplicationSubmittedPayload{},
	InterviewScheduledPayload{},
	ApplicantHiredPayload{},
	AppointmentCreatedPayload{},
	WorkOrderCreatedPayload{},
	TicketCreatedPayload{},
}

// Types returns the full vocabulary in declaration order.
func Types() []Type {
	out := make([]Type, 0, len(registered))
	for _, p := range registered {
		out = append(out, p.EventType())
	}
	return out
}

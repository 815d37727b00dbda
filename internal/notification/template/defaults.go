package template

import "bizsuite/internal/notification/models"

// builtin holds the stock message for every notification key. Variable names
// must match what the corresponding handler emits.
var builtin = Set{
	models.KeyNewEmployee:       "New employee {employee_name} has joined {branch_name} {department_name}.",
	models.KeyNewTeacher:        "New teacher {teacher_name} has been added to {branch_name}.",
	models.KeyLeaveStatus:       "Leave request of {employee_name} ({leave_type}) from {start_date} to {end_date} has been {leave_status}.",
	models.KeyNewPayslip:        "Payslip for {payslip_month} has been generated for {employee_name}. Net salary: {net_salary}.",
	models.KeyNewAward:          "{employee_name} has received the {award_name} award on {award_date}.",
	models.KeyNewAnnouncement:   "New announcement \"{announcement_title}\" for {branch_name} from {start_date} to {end_date}.",
	models.KeyNewHoliday:        "New holiday {holiday_name} from {start_date} to {end_date}.",
	models.KeyNewMeeting:        "New meeting \"{meeting_title}\" scheduled on {date} at {time} for {branch_name}.",
	models.KeyNewCompanyPolicy:  "New company policy \"{policy_name}\" published for {branch_name}.",
	models.KeyEmployeeTrip:      "{employee_name} is travelling to {place} from {start_date} to {end_date}.",
	models.KeyNewLead:           "New lead {lead_name} ({lead_email}) has been assigned to {user_name}.",
	models.KeyLeadToDeal:        "Lead {lead_name} has been converted to deal {deal_name}.",
	models.KeyLeadMoved:         "Lead {lead_name} moved from {old_stage} to {new_stage}.",
	models.KeyNewDeal:           "A new deal has been created.",
	models.KeyDealMoved:         "Deal {deal_name} moved from {old_stage} to {new_stage}.",
	models.KeyNewTask:           "New task {task_name} added to deal {deal_name}, due {due_date}.",
	models.KeyNewProject:        "New project {project_name} has been created.",
	models.KeyNewMilestone:      "New milestone {milestone_title} added to {project_name}. Cost: {milestone_cost}.",
	models.KeyTaskStageUpdated:  "Task {task_title} in {project_name} moved from {old_stage} to {new_stage}.",
	models.KeyNewBug:            "New bug \"{bug_title}\" reported in {project_name}, assigned to {assignee_name}.",
	models.KeyNewCustomer:       "New customer {customer_name} ({customer_email}) has been created.",
	models.KeyNewInvoice:        "Invoice {invoice_number} for {customer_name} created. Total {invoice_total}, due {due_date}.",
	models.KeyInvoicePayment:    "Payment of {payment_amount} received for invoice {invoice_number} from {customer_name} on {payment_date}.",
	models.KeyNewBill:           "New bill {bill_number} from {vendor_name}. Total {bill_total}.",
	models.KeyNewRevenue:        "New revenue of {revenue_amount} from {customer_name} on {date}.",
	models.KeyProposalStatus:    "Proposal {proposal_number} for {customer_name} is now {status}.",
	models.KeyNewContract:       "New contract \"{contract_subject}\" with {client_name} worth {contract_value} ({start_date} to {end_date}).",
	models.KeyNewPurchase:       "New purchase {purchase_number} from {vendor_name} into {warehouse_name}.",
	models.KeyNewWarehouse:      "New warehouse {warehouse_name} created in {city}.",
	models.KeyNewSale:           "New sale {sale_number} to {customer_name}. Total {total}.",
	models.KeyNewJob:            "New job opening {job_title} at {branch_name} for {positions} position(s).",
	models.KeyNewJobApplication: "{applicant_name} applied for {job_title}.",
	models.KeyInterviewSchedule: "Interview with {applicant_name} scheduled on {date} at {time} with {interviewer_name}.",
	models.KeyConvertToEmployee: "Applicant {applicant_name} hired for {job_title}.",
	models.KeyNewAppointment:    "New appointment {appointment_name} ({schedule_name}) booked for {date} at {time}.",
	models.KeyNewWorkOrder:      "New work order \"{work_order_title}\" ({priority}) assigned to {assignee_name}, due {due_date}.",
	models.KeyNewTicket:         "New support ticket #{ticket_number} from {ticket_name}: {subject} [{category}].",
}

// Defaults returns the built-in templates for every supported channel. Slack
// messages carry a leading bell so they stand out in busy channels.
func Defaults() map[models.Channel]Set {
	slack := make(Set, len(builtin))
	for key, body := range builtin {
		slack[key] = ":bell: " + body
	}
	return map[models.Channel]Set{
		models.ChannelTelegram: cloneSet(builtin),
		models.ChannelSlack:    slack,
	}
}

// NewDefaultRegistry is NewRegistry(Defaults()).
func NewDefaultRegistry() *Registry {
	return NewRegistry(Defaults())
}

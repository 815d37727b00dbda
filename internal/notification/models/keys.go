package models

// Notification keys. The strings are the tenant-facing setting names.
const (
	KeyNewEmployee       Key = "New Employee"
	KeyNewTeacher        Key = "New Teacher"
	KeyLeaveStatus       Key = "Leave Approve/Reject"
	KeyNewPayslip        Key = "New Payslip"
	KeyNewAward          Key = "New Award"
	KeyNewAnnouncement   Key = "New Announcement"
	KeyNewHoliday        Key = "New Holidays"
	KeyNewMeeting        Key = "New Meeting"
	KeyNewCompanyPolicy  Key = "New Company Policy"
	KeyEmployeeTrip      Key = "Employee Trip"
	KeyNewLead           Key = "New Lead"
	KeyLeadToDeal        Key = "Lead to Deal Conversion"
	KeyLeadMoved         Key = "Lead Moved"
	KeyNewDeal           Key = "New Deal"
	KeyDealMoved         Key = "Deal Moved"
	KeyNewTask           Key = "New Task"
	KeyNewProject        Key = "New Project"
	KeyNewMilestone      Key = "New Milestone"
	KeyTaskStageUpdated  Key = "Task Stage Updated"
	KeyNewBug            Key = "New Bug"
	KeyNewCustomer       Key = "New Customer"
	KeyNewInvoice        Key = "New Invoice"
	KeyInvoicePayment    Key = "Invoice Payment Create"
	KeyNewBill           Key = "New Bill"
	KeyNewRevenue        Key = "New Revenue"
	KeyProposalStatus    Key = "Proposal Status Updated"
	KeyNewContract       Key = "New Contract"
	KeyNewPurchase       Key = "New Purchase"
	KeyNewWarehouse      Key = "New Warehouse"
	KeyNewSale           Key = "New Sales"
	KeyNewJob            Key = "New Job"
	KeyNewJobApplication Key = "New Job Application"
	KeyInterviewSchedule Key = "Interview Schedule"
	KeyConvertToEmployee Key = "Convert To Employee"
	KeyNewAppointment    Key = "New Appointment"
	KeyNewWorkOrder      Key = "New Work Order"
	KeyNewTicket         Key = "New Ticket"
)

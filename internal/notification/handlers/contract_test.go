package handlers

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/models"
	"bizsuite/internal/notification/template"
	id "bizsuite/pkg/domain"
)

// fullyPopulated returns one payload per event type with every field set and
// every referenced entity resolvable through the returned lookup.
func fullyPopulated(tenant id.TenantID) (map[events.Type]events.Payload, *InMemoryLookup) {
	lookup := NewInMemoryLookup()
	for entity, name := range map[Entity]string{
		EntityUser:       "Sam Owner",
		EntityEmployee:   "Jane Doe",
		EntityBranch:     "Head Office",
		EntityDepartment: "Finance",
		EntityProject:    "Apollo",
		EntityCustomer:   "Globex",
		EntityVendor:     "Initech",
		EntityWarehouse:  "Main Store",
		EntityJob:        "Backend Engineer",
	} {
		lookup.Set(tenant, entity, "1", name)
	}
	for _, stage := range []Entity{EntityDealStage, EntityLeadStage, EntityTaskStage} {
		lookup.Set(tenant, stage, "1", "Open")
		lookup.Set(tenant, stage, "2", "Closed")
	}

	employee := &events.Employee{ID: "1", Name: "Jane Doe", Email: "jane@example.com", BranchID: "1", DepartmentID: "1"}
	lead := &events.Lead{ID: "1", Name: "Globex lead", Email: "lead@example.com", UserID: "1"}
	deal := &events.Deal{ID: "1", Name: "Globex renewal", Price: "1000"}
	invoice := &events.Invoice{ID: "1", Number: "INV-1", CustomerID: "1", DueDate: "2026-11-01", Total: "99.00"}

	payloads := []events.Payload{
		events.EmployeeCreatedPayload{Employee: employee},
		events.LeaveStatusChangedPayload{EmployeeID: "1", LeaveType: "Sick", StartDate: "2026-10-01", EndDate: "2026-10-02", Status: "approved"},
		events.PayslipSentPayload{EmployeeID: "1", Month: "2026-09", NetSalary: "4200"},
		events.AwardCreatedPayload{EmployeeID: "1", AwardType: "Employee of the Month", Date: "2026-10-01"},
		events.AnnouncementCreatedPayload{Title: "Town hall", BranchID: "1", StartDate: "2026-10-01", EndDate: "2026-10-02"},
		events.HolidayCreatedPayload{Occasion: "New Year", StartDate: "2027-01-01", EndDate: "2027-01-01"},
		events.MeetingCreatedPayload{Title: "Sprint review", Date: "2026-10-20", Time: "10:00", BranchID: "1"},
		events.CompanyPolicyCreatedPayload{Title: "Remote work", BranchID: "1"},
		events.TripCreatedPayload{EmployeeID: "1", Place: "Berlin", StartDate: "2026-11-01", EndDate: "2026-11-05"},
		events.LeadCreatedPayload{Lead: lead},
		events.LeadConvertedPayload{Lead: lead, Deal: deal},
		events.LeadMovedPayload{Lead: lead, OldStageID: "1", NewStageID: "2"},
		events.DealCreatedPayload{Deal: deal},
		events.DealMovedPayload{Deal: deal, OldStageID: "1", NewStageID: "2"},
		events.DealTaskCreatedPayload{Deal: deal, TaskName: "Send quote", DueDate: "2026-10-30"},
		events.ProjectCreatedPayload{ProjectID: "1", Name: "Apollo"},
		events.MilestoneCreatedPayload{ProjectID: "1", Title: "Beta", Cost: "5000"},
		events.TaskStageUpdatedPayload{ProjectID: "1", TaskTitle: "Write docs", OldStageID: "1", NewStageID: "2"},
		events.BugCreatedPayload{ProjectID: "1", Title: "Crash on save", AssigneeID: "1"},
		events.CustomerCreatedPayload{Name: "Globex", Email: "ap@globex.test"},
		events.InvoiceCreatedPayload{Invoice: invoice},
		events.InvoicePaymentCreatedPayload{Invoice: invoice, Amount: "99.00", Date: "2026-10-10"},
		events.BillCreatedPayload{Number: "BILL-1", VendorID: "1", Total: "10.00"},
		events.RevenueCreatedPayload{Amount: "250.00", CustomerID: "1", Date: "2026-10-10"},
		events.ProposalStatusUpdatedPayload{Number: "PROP-1", CustomerID: "1", Status: "accepted"},
		events.ContractCreatedPayload{Subject: "Support", ClientUserID: "1", Value: "12000", StartDate: "2026-10-01", EndDate: "2027-09-30"},
		events.PurchaseCreatedPayload{Number: "PUR-1", VendorID: "1", WarehouseID: "1"},
		events.WarehouseCreatedPayload{Name: "Main Store", City: "Lisbon"},
		events.PosSaleCreatedPayload{Number: "POS-1", CustomerID: "1", Total: "12.50"},
		events.JobCreatedPayload{Title: "Backend Engineer", BranchID: "1", Positions: 2},
		events.JobApplicationSubmittedPayload{ApplicantName: "Alex Smith", JobID: "1"},
		events.InterviewScheduledPayload{ApplicantName: "Alex Smith", Date: "2026-10-25", Time: "14:00", InterviewerID: "1"},
		events.ApplicantHiredPayload{ApplicantName: "Alex Smith", JobID: "1"},
		events.AppointmentCreatedPayload{Name: "Checkup", Email: "p@example.com", Date: "2026-10-21", Time: "09:30", ScheduleName: "Dental"},
		events.WorkOrderCreatedPayload{Title: "Fix boiler", Priority: "high", AssigneeID: "1", DueDate: "2026-10-22"},
		events.TicketCreatedPayload{Number: "1042", Name: "Pat", Email: "pat@example.com", Subject: "Login issue", Category: "Access"},
	}
	out := make(map[events.Type]events.Payload, len(payloads))
	for _, p := range payloads {
		out[p.EventType()] = p
	}
	return out, lookup
}

func TestEveryEventTypeHasAHandler(t *testing.T) {
	covered := map[events.Type]bool{}
	for _, h := range Defaults(nil) {
		covered[h.EventType()] = true
	}
	for _, typ := range events.Types() {
		assert.True(t, covered[typ], "no handler for %s", typ)
	}
}

func TestHandlersMatchDefaultTemplates(t *testing.T) {
	reg := template.NewDefaultRegistry()
	for _, h := range Defaults(nil) {
		for _, ch := range models.Channels {
			tpl, ok := reg.Lookup(ch, h.Key())
			require.True(t, ok, "missing %s template for %q", ch, h.Key())

			placeholders := template.Placeholders(tpl)
			sort.Strings(placeholders)
			declared := h.Variables()
			sort.Strings(declared)
			assert.ElementsMatch(t, declared, placeholders, "%s/%q", ch, h.Key())
		}
	}
}

func TestFullyPopulatedEventsExtractEveryDeclaredVariable(t *testing.T) {
	tenant := id.TenantID(uuid.New())
	payloads, lookup := fullyPopulated(tenant)
	require.Len(t, payloads, len(events.Types()))

	for _, h := range Defaults(lookup) {
		t.Run(string(h.Key()), func(t *testing.T) {
			payload, ok := payloads[h.EventType()]
			require.True(t, ok)

			vars, ok := h.Extract(context.Background(), events.New(tenant, payload))
			require.True(t, ok)

			got := make([]string, 0, len(vars))
			for name, value := range vars {
				got = append(got, name)
				assert.NotEmpty(t, value, "variable %s", name)
			}
			assert.ElementsMatch(t, h.Variables(), got)
		})
	}
}

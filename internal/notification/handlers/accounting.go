package handlers

import (
	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/models"
)

func accountingHandlers(lookup Lookup) []Handler {
	return []Handler{
		newHandler(models.KeyNewCustomer, lookup,
			[]string{"customer_name", "customer_email"},
			func(_ joins, p events.CustomerCreatedPayload) (models.Vars, bool) {
				if !present(p.Name) {
					return nil, false
				}
				return models.Vars{
					"customer_name":  p.Name,
					"customer_email": p.Email,
				}, true
			}),

		newHandler(models.KeyNewInvoice, lookup,
			[]string{"invoice_number", "customer_name", "due_date", "invoice_total"},
			func(j joins, p events.InvoiceCreatedPayload) (models.Vars, bool) {
				if p.Invoice == nil || !present(p.Invoice.Number) {
					return nil, false
				}
				customer, ok := j.required(EntityCustomer, p.Invoice.CustomerID)
				if !ok {
					return nil, false
				}
				return models.Vars{
					"invoice_number": p.Invoice.Number,
					"customer_name":  customer,
					"due_date":       p.Invoice.DueDate,
					"invoice_total":  p.Invoice.Total,
				}, true
			}),

		newHandler(models.KeyInvoicePayment, lookup,
			[]string{"payment_amount", "invoice_number", "customer_name", "payment_date"},
			func(j joins, p events.InvoicePaymentCreatedPayload) (models.Vars, bool) {
				if p.Invoice == nil || !present(p.Invoice.Number, p.Amount) {
					return nil, false
				}
				customer, ok := j.required(EntityCustomer, p.Invoice.CustomerID)
				if !ok {
					return nil, false
				}
				return models.Vars{
					"payment_amount": p.Amount,
					"invoice_number": p.Invoice.Number,
					"customer_name":  customer,
					"payment_date":   p.Date,
				}, true
			}),

		newHandler(models.KeyNewBill, lookup,
			[]string{"bill_number", "vendor_name", "bill_total"},
			func(j joins, p events.BillCreatedPayload) (models.Vars, bool) {
				vendor, ok := j.required(EntityVendor, p.VendorID)
				if !ok || !present(p.Number) {
					return nil, false
				}
				return models.Vars{
					"bill_number": p.Number,
					"vendor_name": vendor,
					"bill_total":  p.Total,
				}, true
			}),

		newHandler(models.KeyNewRevenue, lookup,
			[]string{"revenue_amount", "customer_name", "date"},
			func(j joins, p events.RevenueCreatedPayload) (models.Vars, bool) {
				if !present(p.Amount) {
					return nil, false
				}
				return models.Vars{
					"revenue_amount": p.Amount,
					"customer_name":  j.optional(EntityCustomer, p.CustomerID),
					"date":           p.Date,
				}, true
			}),

		newHandler(models.KeyProposalStatus, lookup,
			[]string{"proposal_number", "customer_name", "status"},
			func(j joins, p events.ProposalStatusUpdatedPayload) (models.Vars, bool) {
				customer, ok := j.required(EntityCustomer, p.CustomerID)
				if !ok || !present(p.Number, p.Status) {
					return nil, false
				}
				return models.Vars{
					"proposal_number": p.Number,
					"customer_name":   customer,
					"status":          p.Status,
				}, true
			}),

		newHandler(models.KeyNewContract, lookup,
			[]string{"contract_subject", "client_name", "contract_value", "start_date", "end_date"},
			func(j joins, p events.ContractCreatedPayload) (models.Vars, bool) {
				client, ok := j.required(EntityUser, p.ClientUserID)
				if !ok || !present(p.Subject) {
					return nil, false
				}
				return models.Vars{
					"contract_subject": p.Subject,
					"client_name":      client,
					"contract_value":   p.Value,
					"start_date":       p.StartDate,
					"end_date":         p.EndDate,
				}, true
			}),
	}
}

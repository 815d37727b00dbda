package handlers

import (
	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/models"
)

// walkInCustomer names POS sales recorded without a customer account.
const walkInCustomer = "Walk-in Customer"

func posHandlers(lookup Lookup) []Handler {
	return []Handler{
		newHandler(models.KeyNewPurchase, lookup,
			[]string{"purchase_number", "vendor_name", "warehouse_name"},
			func(j joins, p events.PurchaseCreatedPayload) (models.Vars, bool) {
				vendor, ok := j.required(EntityVendor, p.VendorID)
				if !ok || !present(p.Number) {
					return nil, false
				}
				return models.Vars{
					"purchase_number": p.Number,
					"vendor_name":     vendor,
					"warehouse_name":  j.optional(EntityWarehouse, p.WarehouseID),
				}, true
			}),

		newHandler(models.KeyNewWarehouse, lookup,
			[]string{"warehouse_name", "city"},
			func(_ joins, p events.WarehouseCreatedPayload) (models.Vars, bool) {
				if !present(p.Name) {
					return nil, false
				}
				return models.Vars{
					"warehouse_name": p.Name,
					"city":           p.City,
				}, true
			}),

		newHandler(models.KeyNewSale, lookup,
			[]string{"sale_number", "customer_name", "total"},
			func(j joins, p events.PosSaleCreatedPayload) (models.Vars, bool) {
				if !present(p.Number) {
					return nil, false
				}
				customer := walkInCustomer
				if p.CustomerID != "" {
					name, ok := j.required(EntityCustomer, p.CustomerID)
					if !ok {
						return nil, false
					}
					customer = name
				}
				return models.Vars{
					"sale_number":   p.Number,
					"customer_name": customer,
					"total":         p.Total,
				}, true
			}),
	}
}

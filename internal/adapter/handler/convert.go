package handler

import (
	"github.com/rl1809/storekeeper/internal/adapter/handler/rpc"
	"github.com/rl1809/storekeeper/internal/core/domain"
)

func toRPCItem(item domain.InventoryItem) rpc.Item {
	return rpc.Item{Id: item.ID, Name: item.Name, Quantity: item.Quantity, Price: item.Price}
}

func toRPCItems(items []domain.InventoryItem) []rpc.Item {
	out := make([]rpc.Item, len(items))
	for i, item := range items {
		out[i] = toRPCItem(item)
	}
	return out
}

func toRPCSale(rec domain.SaleRecord) rpc.SaleRecord {
	out := rpc.SaleRecord{
		Id:          rec.ID,
		Items:       make([]rpc.SaleItem, len(rec.Items)),
		TotalAmount: rec.TotalAmount,
		Timestamp:   rec.Timestamp.UnixNano(),
	}
	for i, line := range rec.Items {
		out.Items[i] = rpc.SaleItem{Id: line.ID, Name: line.Name, UnitPrice: line.UnitPrice, Quantity: line.Quantity}
	}
	return out
}

func toRPCSales(recs []domain.SaleRecord) []rpc.SaleRecord {
	out := make([]rpc.SaleRecord, len(recs))
	for i, rec := range recs {
		out[i] = toRPCSale(rec)
	}
	return out
}

func toRPCTopSellers(top []domain.TopSeller) []rpc.TopSeller {
	out := make([]rpc.TopSeller, len(top))
	for i, t := range top {
		out[i] = rpc.TopSeller{Name: t.Name, QuantitySold: t.QuantitySold}
	}
	return out
}

func toRPCOverview(o domain.FinancialOverview) rpc.FinancialOverviewResponse {
	return rpc.FinancialOverviewResponse{
		TotalSalesRevenue:   o.TotalSalesRevenue,
		TotalInventoryValue: o.TotalInventoryValue,
		ExactSalesRevenue:   o.ExactSalesRevenue.String(),
		ExactInventoryValue: o.ExactInventoryValue.String(),
	}
}

func fromRPCLines(lines []rpc.SaleLine) []domain.SaleLine {
	out := make([]domain.SaleLine, len(lines))
	for i, line := range lines {
		out[i] = domain.SaleLine{ItemID: line.ItemId, Quantity: line.Quantity}
	}
	return out
}

func patchFrom(name *string, quantity *uint64, price *float64) domain.ItemPatch {
	var patch domain.ItemPatch
	if name != nil {
		patch.Name = domain.Some(*name)
	}
	if quantity != nil {
		patch.Quantity = domain.Some(*quantity)
	}
	if price != nil {
		patch.Price = domain.Some(*price)
	}
	return patch
}

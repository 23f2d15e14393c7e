package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storekeeper/internal/core/domain"
)

// ReportService computes read-only views over inventory and sales. Nothing is cached.
type ReportService struct {
	state *State
}

func NewReportService(state *State) *ReportService {
	return &ReportService{state: state}
}

func (s *ReportService) FinancialOverview() domain.FinancialOverview {
	st := s.state
	st.mu.RLock()
	defer st.mu.RUnlock()

	var revenue, value float64
	exactRevenue, exactValue := decimal.Zero, decimal.Zero
	for _, rec := range st.sales {
		revenue += rec.TotalAmount
		for _, line := range rec.Items {
			exactRevenue = exactRevenue.Add(exactLineValue(line.UnitPrice, line.Quantity))
		}
	}
	for _, id := range st.order {
		item := st.items[id]
		value += lineValue(item.Price, item.Quantity)
		exactValue = exactValue.Add(exactLineValue(item.Price, item.Quantity))
	}

	return domain.FinancialOverview{
		TotalSalesRevenue:   revenue,
		TotalInventoryValue: value,
		ExactSalesRevenue:   exactRevenue,
		ExactInventoryValue: exactValue,
	}
}

// TopSellingItems ranks item names by total quantity sold. Ties keep the
// order in which names first appear in the ledger.
func (s *ReportService) TopSellingItems(n int) []domain.TopSeller {
	if n <= 0 {
		return []domain.TopSeller{}
	}

	s.state.mu.RLock()
	var ranked []domain.TopSeller
	index := make(map[string]int)
	for _, rec := range s.state.sales {
		for _, line := range rec.Items {
			i, ok := index[line.Name]
			if !ok {
				i = len(ranked)
				index[line.Name] = i
				ranked = append(ranked, domain.TopSeller{Name: line.Name})
			}
			ranked[i].QuantitySold += line.Quantity
		}
	}
	s.state.mu.RUnlock()

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].QuantitySold > ranked[j].QuantitySold
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []domain.TopSeller{}
	}
	return ranked
}

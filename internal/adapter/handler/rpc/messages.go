package rpc

type Item struct {
	Id       uint64  `json:"id"`
	Name     string  `json:"name"`
	Quantity uint64  `json:"quantity"`
	Price    float64 `json:"price"`
}

type SaleItem struct {
	Id        uint64  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  uint64  `json:"quantity"`
}

type SaleRecord struct {
	Id          string     `json:"id"`
	Items       []SaleItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
	// Unix nanoseconds.
	Timestamp int64 `json:"timestamp"`
}

type SaleLine struct {
	ItemId   uint64 `json:"item_id"`
	Quantity uint64 `json:"quantity"`
}

type TopSeller struct {
	Name         string `json:"name"`
	QuantitySold uint64 `json:"quantity_sold"`
}

type Empty struct{}

type AddItemRequest struct {
	Name     string  `json:"name"`
	Quantity uint64  `json:"quantity"`
	Price    float64 `json:"price"`
}

type AddItemResponse struct {
	Id uint64 `json:"id"`
}

// UpdateItemRequest leaves nil fields unchanged.
type UpdateItemRequest struct {
	Id       uint64   `json:"id"`
	Name     *string  `json:"name,omitempty"`
	Quantity *uint64  `json:"quantity,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

type ItemIDRequest struct {
	Id uint64 `json:"id"`
}

type GetItemDetailsResponse struct {
	Found bool  `json:"found"`
	Item  *Item `json:"item,omitempty"`
}

type ItemsResponse struct {
	Items []Item `json:"items"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type ReorderRequest struct {
	Threshold uint64 `json:"threshold"`
}

type RecordSaleRequest struct {
	RequestId string     `json:"request_id,omitempty"`
	Items     []SaleLine `json:"items"`
}

type SalesResponse struct {
	Sales []SaleRecord `json:"sales"`
}

type FinancialOverviewResponse struct {
	TotalSalesRevenue   float64 `json:"total_sales_revenue"`
	TotalInventoryValue float64 `json:"total_inventory_value"`
	// Decimal renderings of the same sums without float rounding.
	ExactSalesRevenue   string `json:"exact_sales_revenue"`
	ExactInventoryValue string `json:"exact_inventory_value"`
}

type TopSellingRequest struct {
	N uint32 `json:"n"`
}

type TopSellingResponse struct {
	Items []TopSeller `json:"items"`
}

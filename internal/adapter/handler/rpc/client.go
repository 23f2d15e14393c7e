package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// Client calls the Storekeeper service using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddItem(ctx context.Context, in *AddItemRequest, opts ...grpc.CallOption) (*AddItemResponse, error) {
	return invoke[AddItemResponse](ctx, c, "AddItem", in, opts)
}

func (c *Client) UpdateItem(ctx context.Context, in *UpdateItemRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "UpdateItem", in, opts)
}

func (c *Client) RemoveItem(ctx context.Context, in *ItemIDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "RemoveItem", in, opts)
}

func (c *Client) GetItemDetails(ctx context.Context, in *ItemIDRequest, opts ...grpc.CallOption) (*GetItemDetailsResponse, error) {
	return invoke[GetItemDetailsResponse](ctx, c, "GetItemDetails", in, opts)
}

func (c *Client) GetInventory(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ItemsResponse, error) {
	return invoke[ItemsResponse](ctx, c, "GetInventory", in, opts)
}

func (c *Client) SearchItemByName(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*ItemsResponse, error) {
	return invoke[ItemsResponse](ctx, c, "SearchItemByName", in, opts)
}

func (c *Client) ReorderSuggestions(ctx context.Context, in *ReorderRequest, opts ...grpc.CallOption) (*ItemsResponse, error) {
	return invoke[ItemsResponse](ctx, c, "ReorderSuggestions", in, opts)
}

func (c *Client) RecordSale(ctx context.Context, in *RecordSaleRequest, opts ...grpc.CallOption) (*SaleRecord, error) {
	return invoke[SaleRecord](ctx, c, "RecordSale", in, opts)
}

func (c *Client) GetSales(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SalesResponse, error) {
	return invoke[SalesResponse](ctx, c, "GetSales", in, opts)
}

func (c *Client) FinancialOverview(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*FinancialOverviewResponse, error) {
	return invoke[FinancialOverviewResponse](ctx, c, "FinancialOverview", in, opts)
}

func (c *Client) GetTopSellingItems(ctx context.Context, in *TopSellingRequest, opts ...grpc.CallOption) (*TopSellingResponse, error) {
	return invoke[TopSellingResponse](ctx, c, "GetTopSellingItems", in, opts)
}

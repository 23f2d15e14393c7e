package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "storekeeper.v1.Storekeeper"

// StorekeeperServer is the server API for the Storekeeper service.
type StorekeeperServer interface {
	AddItem(context.Context, *AddItemRequest) (*AddItemResponse, error)
	UpdateItem(context.Context, *UpdateItemRequest) (*Empty, error)
	RemoveItem(context.Context, *ItemIDRequest) (*Empty, error)
	GetItemDetails(context.Context, *ItemIDRequest) (*GetItemDetailsResponse, error)
	GetInventory(context.Context, *Empty) (*ItemsResponse, error)
	SearchItemByName(context.Context, *SearchRequest) (*ItemsResponse, error)
	ReorderSuggestions(context.Context, *ReorderRequest) (*ItemsResponse, error)
	RecordSale(context.Context, *RecordSaleRequest) (*SaleRecord, error)
	GetSales(context.Context, *Empty) (*SalesResponse, error)
	FinancialOverview(context.Context, *Empty) (*FinancialOverviewResponse, error)
	GetTopSellingItems(context.Context, *TopSellingRequest) (*TopSellingResponse, error)
	mustEmbedUnimplementedStorekeeperServer()
}

// UnimplementedStorekeeperServer must be embedded by implementations.
type UnimplementedStorekeeperServer struct{}

func (UnimplementedStorekeeperServer) AddItem(context.Context, *AddItemRequest) (*AddItemResponse, error) {
	return nil, unimplemented("AddItem")
}
func (UnimplementedStorekeeperServer) UpdateItem(context.Context, *UpdateItemRequest) (*Empty, error) {
	return nil, unimplemented("UpdateItem")
}
func (UnimplementedStorekeeperServer) RemoveItem(context.Context, *ItemIDRequest) (*Empty, error) {
	return nil, unimplemented("RemoveItem")
}
func (UnimplementedStorekeeperServer) GetItemDetails(context.Context, *ItemIDRequest) (*GetItemDetailsResponse, error) {
	return nil, unimplemented("GetItemDetails")
}
func (UnimplementedStorekeeperServer) GetInventory(context.Context, *Empty) (*ItemsResponse, error) {
	return nil, unimplemented("GetInventory")
}
func (UnimplementedStorekeeperServer) SearchItemByName(context.Context, *SearchRequest) (*ItemsResponse, error) {
	return nil, unimplemented("SearchItemByName")
}
func (UnimplementedStorekeeperServer) ReorderSuggestions(context.Context, *ReorderRequest) (*ItemsResponse, error) {
	return nil, unimplemented("ReorderSuggestions")
}
func (UnimplementedStorekeeperServer) RecordSale(context.Context, *RecordSaleRequest) (*SaleRecord, error) {
	return nil, unimplemented("RecordSale")
}
func (UnimplementedStorekeeperServer) GetSales(context.Context, *Empty) (*SalesResponse, error) {
	return nil, unimplemented("GetSales")
}
func (UnimplementedStorekeeperServer) FinancialOverview(context.Context, *Empty) (*FinancialOverviewResponse, error) {
	return nil, unimplemented("FinancialOverview")
}
func (UnimplementedStorekeeperServer) GetTopSellingItems(context.Context, *TopSellingRequest) (*TopSellingResponse, error) {
	return nil, unimplemented("GetTopSellingItems")
}
func (UnimplementedStorekeeperServer) mustEmbedUnimplementedStorekeeperServer() {}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func RegisterStorekeeperServer(s grpc.ServiceRegistrar, srv StorekeeperServer) {
	s.RegisterService(&Storekeeper_ServiceDesc, srv)
}

var Storekeeper_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StorekeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("AddItem", StorekeeperServer.AddItem),
		unary("UpdateItem", StorekeeperServer.UpdateItem),
		unary("RemoveItem", StorekeeperServer.RemoveItem),
		unary("GetItemDetails", StorekeeperServer.GetItemDetails),
		unary("GetInventory", StorekeeperServer.GetInventory),
		unary("SearchItemByName", StorekeeperServer.SearchItemByName),
		unary("ReorderSuggestions", StorekeeperServer.ReorderSuggestions),
		unary("RecordSale", StorekeeperServer.RecordSale),
		unary("GetSales", StorekeeperServer.GetSales),
		unary("FinancialOverview", StorekeeperServer.FinancialOverview),
		unary("GetTopSellingItems", StorekeeperServer.GetTopSellingItems),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storekeeper/v1/storekeeper",
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](method string, call func(StorekeeperServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(StorekeeperServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(StorekeeperServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

package handler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/storekeeper/internal/adapter/handler/rpc"
	"github.com/rl1809/storekeeper/internal/core/domain"
	"github.com/rl1809/storekeeper/internal/core/service"
)

type GRPCHandler struct {
	rpc.UnimplementedStorekeeperServer
	inventory *service.InventoryService
	sales     *service.SalesService
	reports   *service.ReportService
	logger    *zap.Logger
}

func NewGRPCHandler(inventory *service.InventoryService, sales *service.SalesService, reports *service.ReportService, logger *zap.Logger) *GRPCHandler {
	return &GRPCHandler{inventory: inventory, sales: sales, reports: reports, logger: logger}
}

func (h *GRPCHandler) AddItem(ctx context.Context, req *rpc.AddItemRequest) (*rpc.AddItemResponse, error) {
	id, err := h.inventory.AddItem(req.Name, req.Quantity, req.Price)
	if err != nil {
		return nil, h.grpcError(err)
	}
	return &rpc.AddItemResponse{Id: id}, nil
}

func (h *GRPCHandler) UpdateItem(ctx context.Context, req *rpc.UpdateItemRequest) (*rpc.Empty, error) {
	if err := h.inventory.UpdateItem(req.Id, patchFrom(req.Name, req.Quantity, req.Price)); err != nil {
		return nil, h.grpcError(err)
	}
	return &rpc.Empty{}, nil
}

func (h *GRPCHandler) RemoveItem(ctx context.Context, req *rpc.ItemIDRequest) (*rpc.Empty, error) {
	if err := h.inventory.RemoveItem(req.Id); err != nil {
		return nil, h.grpcError(err)
	}
	return &rpc.Empty{}, nil
}

func (h *GRPCHandler) GetItemDetails(ctx context.Context, req *rpc.ItemIDRequest) (*rpc.GetItemDetailsResponse, error) {
	item, ok := h.inventory.GetItemDetails(req.Id)
	if !ok {
		return &rpc.GetItemDetailsResponse{Found: false}, nil
	}
	out := toRPCItem(item)
	return &rpc.GetItemDetailsResponse{Found: true, Item: &out}, nil
}

func (h *GRPCHandler) GetInventory(ctx context.Context, _ *rpc.Empty) (*rpc.ItemsResponse, error) {
	return &rpc.ItemsResponse{Items: toRPCItems(h.inventory.GetInventory())}, nil
}

func (h *GRPCHandler) SearchItemByName(ctx context.Context, req *rpc.SearchRequest) (*rpc.ItemsResponse, error) {
	return &rpc.ItemsResponse{Items: toRPCItems(h.inventory.SearchItemByName(req.Query))}, nil
}

func (h *GRPCHandler) ReorderSuggestions(ctx context.Context, req *rpc.ReorderRequest) (*rpc.ItemsResponse, error) {
	return &rpc.ItemsResponse{Items: toRPCItems(h.inventory.ReorderSuggestions(req.Threshold))}, nil
}

func (h *GRPCHandler) RecordSale(ctx context.Context, req *rpc.RecordSaleRequest) (*rpc.SaleRecord, error) {
	rec, err := h.sales.RecordSaleOnce(ctx, req.RequestId, fromRPCLines(req.Items))
	if err != nil {
		return nil, h.grpcError(err)
	}
	out := toRPCSale(rec)
	return &out, nil
}

func (h *GRPCHandler) GetSales(ctx context.Context, _ *rpc.Empty) (*rpc.SalesResponse, error) {
	return &rpc.SalesResponse{Sales: toRPCSales(h.sales.GetSales())}, nil
}

func (h *GRPCHandler) FinancialOverview(ctx context.Context, _ *rpc.Empty) (*rpc.FinancialOverviewResponse, error) {
	out := toRPCOverview(h.reports.FinancialOverview())
	return &out, nil
}

func (h *GRPCHandler) GetTopSellingItems(ctx context.Context, req *rpc.TopSellingRequest) (*rpc.TopSellingResponse, error) {
	return &rpc.TopSellingResponse{Items: toRPCTopSellers(h.reports.TopSellingItems(int(req.N)))}, nil
}

func (h *GRPCHandler) grpcError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrDuplicateRequest):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}

// LoggingInterceptor logs every unary call with its status code and duration.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		logger.Info("grpc request",
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)))
		return resp, err
	}
}

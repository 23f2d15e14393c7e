package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/rl1809/storekeeper/internal/adapter/handler/rpc"
)

func main() {
	addr := flag.String("addr", "localhost:50051", "storekeeper gRPC address")
	initialStock := flag.Uint64("stock", 20, "stock of the item under load")
	totalRequests := flag.Int("requests", 50, "number of concurrent single-unit sales")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()
	client := rpc.NewClient(conn)

	item, err := client.AddItem(ctx, &rpc.AddItemRequest{
		Name:     "loadgen-" + uuid.NewString()[:8],
		Quantity: *initialStock,
		Price:    1,
	})
	if err != nil {
		log.Fatalf("failed to add item: %v", err)
	}

	// Counters
	var successCount atomic.Int32
	var soldOutCount atomic.Int32
	var errorCount atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := client.RecordSale(ctx, &rpc.RecordSaleRequest{
				RequestId: uuid.NewString(),
				Items:     []rpc.SaleLine{{ItemId: item.Id, Quantity: 1}},
			})
			switch status.Code(err) {
			case codes.OK:
				successCount.Add(1)
			case codes.FailedPrecondition:
				soldOutCount.Add(1)
			default:
				errorCount.Add(1)
				log.Printf("sale failed: %v", err)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := int(successCount.Load())
	soldOut := int(soldOutCount.Load())
	expected := min(int(*initialStock), *totalRequests)

	fmt.Println("========== LOAD TEST RESULTS ==========")
	fmt.Printf("Item ID:          %d\n", item.Id)
	fmt.Printf("Initial Stock:    %d\n", *initialStock)
	fmt.Printf("Total Requests:   %d\n", *totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Sold Out:         %d\n", soldOut)
	fmt.Printf("Errors:           %d\n", errorCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("========================================")

	// Assertions
	if success == expected && soldOut == *totalRequests-expected {
		fmt.Printf("PASS: Exactly %d sales succeeded, %d sold out\n", expected, soldOut)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d sold out, got %d/%d\n",
			expected, *totalRequests-expected, success, soldOut)
	}

	// Verify final stock
	details, err := client.GetItemDetails(ctx, &rpc.ItemIDRequest{Id: item.Id})
	if err != nil || !details.Found {
		log.Fatalf("failed to read final stock: %v", err)
	}
	want := *initialStock - uint64(expected)
	fmt.Printf("Final Stock:      %d\n", details.Item.Quantity)

	if details.Item.Quantity == want {
		fmt.Printf("PASS: Stock is %d\n", want)
	} else {
		fmt.Printf("FAIL: Expected stock %d, got %d\n", want, details.Item.Quantity)
	}
}

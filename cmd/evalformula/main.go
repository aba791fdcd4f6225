// Command evalformula evaluates a formula against a running catalog server
// over gRPC.
//
//	evalformula -formula 'round({basePrice} * 1.15)' -set basePrice=40
//	evalformula -formula '{price15} + 5' -product 6f1c...
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/markup-catalog/internal/transport/grpc/formula"
)

// assignments collects repeated -set name=value flags.
type assignments map[string]any

func (a assignments) String() string { return fmt.Sprint(map[string]any(a)) }

func (a assignments) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("want name=value, got %q", s)
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		a[name] = f
	} else {
		a[name] = value
	}
	return nil
}

func buildRequest(src, productID string, row assignments) (*structpb.Struct, error) {
	fields := map[string]any{"formula": src}
	if productID != "" {
		fields["product_id"] = productID
	}
	if len(row) > 0 {
		fields["row"] = map[string]any(row)
	}
	return structpb.NewStruct(fields)
}

func main() {
	addr := flag.String("addr", "localhost:9090", "gRPC server address")
	src := flag.String("formula", "", "formula to evaluate (required)")
	productID := flag.String("product", "", "evaluate against a stored product")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	row := assignments{}
	flag.Var(row, "set", "row value as name=value (repeatable)")
	flag.Parse()

	if *src == "" {
		log.Fatal("Error: -formula flag is required")
	}

	req, err := buildRequest(*src, *productID, row)
	if err != nil {
		log.Fatalf("Invalid request: %v", err)
	}

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := formula.NewClient(conn).Evaluate(ctx, req)
	if err != nil {
		log.Fatalf("Failed to evaluate: %v", err)
	}
	fmt.Println(strconv.FormatFloat(resp.GetNumberValue(), 'f', -1, 64))
}

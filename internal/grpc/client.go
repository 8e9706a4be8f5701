package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/godilite/feedback-insights/internal/aggregator"
	"github.com/godilite/feedback-insights/internal/charts"
	"github.com/godilite/feedback-insights/internal/service"
)

// Client calls a FeedbackInsights server and decodes its replies.
type Client struct {
	cc gogrpc.ClientConnInterface
}

func NewClient(cc gogrpc.ClientConnInterface) *Client {
	if cc == nil {
		panic("nil connection provided to NewClient")
	}
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, dest any, opts ...gogrpc.CallOption) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return err
	}
	raw, err := protojson.Marshal(out)
	if err != nil {
		return fmt.Errorf("%s: encode reply: %w", method, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%s: decode reply: %w", method, err)
	}
	return nil
}

func rangeRequest(r aggregator.Range) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		rangeField: structpb.NewStringValue(string(r)),
	}}
}

// Import sends an analysis payload as-is.
func (c *Client) Import(ctx context.Context, payload []byte, opts ...gogrpc.CallOption) (ImportResponse, error) {
	in := &structpb.Struct{}
	if err := protojson.Unmarshal(payload, in); err != nil {
		return ImportResponse{}, fmt.Errorf("ImportFeedback: %w", err)
	}
	var out ImportResponse
	err := c.invoke(ctx, "ImportFeedback", in, &out, opts...)
	return out, err
}

func (c *Client) chart(ctx context.Context, method string, in *structpb.Struct, opts []gogrpc.CallOption) (charts.Chart, error) {
	var out charts.Chart
	err := c.invoke(ctx, method, in, &out, opts...)
	return out, err
}

func (c *Client) Distribution(ctx context.Context, opts ...gogrpc.CallOption) (charts.Chart, error) {
	return c.chart(ctx, "GetDistribution", nil, opts)
}

func (c *Client) PositiveBreakdown(ctx context.Context, opts ...gogrpc.CallOption) (charts.Chart, error) {
	return c.chart(ctx, "GetPositiveBreakdown", nil, opts)
}

func (c *Client) TopTopics(ctx context.Context, opts ...gogrpc.CallOption) (charts.Chart, error) {
	return c.chart(ctx, "GetTopTopics", nil, opts)
}

func (c *Client) Timeline(ctx context.Context, r aggregator.Range, opts ...gogrpc.CallOption) (charts.Chart, error) {
	return c.chart(ctx, "GetTimeline", rangeRequest(r), opts)
}

func (c *Client) StackedArea(ctx context.Context, r aggregator.Range, opts ...gogrpc.CallOption) (charts.Chart, error) {
	return c.chart(ctx, "GetStackedArea", rangeRequest(r), opts)
}

func (c *Client) IssueTrend(ctx context.Context, r aggregator.Range, opts ...gogrpc.CallOption) (charts.Chart, error) {
	return c.chart(ctx, "GetIssueTrend", rangeRequest(r), opts)
}

func (c *Client) Overview(ctx context.Context, r aggregator.Range, opts ...gogrpc.CallOption) (service.Overview, error) {
	var out service.Overview
	err := c.invoke(ctx, "GetOverview", rangeRequest(r), &out, opts...)
	return out, err
}

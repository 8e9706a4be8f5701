package grpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/godilite/feedback-insights/internal/aggregator"
	"github.com/godilite/feedback-insights/internal/charts"
	"github.com/godilite/feedback-insights/internal/feedback"
	"github.com/godilite/feedback-insights/internal/service"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
	invalidateTimeout    = 5 * time.Second

	cachePrefix = "grpc:"
	rangeField  = "range"
)

type CacheKeyType string

const (
	cacheKeyDistribution      CacheKeyType = "grpc:distribution"
	cacheKeyPositiveBreakdown CacheKeyType = "grpc:positive_breakdown"
	cacheKeyTimeline          CacheKeyType = "grpc:timeline"
	cacheKeyStackedArea       CacheKeyType = "grpc:stacked_area"
	cacheKeyTopTopics         CacheKeyType = "grpc:top_topics"
	cacheKeyIssueTrend        CacheKeyType = "grpc:issue_trend"
	cacheKeyOverview          CacheKeyType = "grpc:overview"
)

type GRPCHandlers struct {
	insights InsightsService
	cache    Cacher
	logger   *zap.Logger
	sfGroup  singleflight.Group
	cacheTTL time.Duration
	// generation is part of every cache key and moves on each import, so a
	// response computed before an import can never be read after it.
	generation atomic.Uint64
}

// NewGRPCHandlers initializes the gRPC handlers. A nil cache disables caching.
func NewGRPCHandlers(insights InsightsService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if insights == nil {
		panic("nil InsightsService provided to NewGRPCHandlers")
	}
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &GRPCHandlers{
		insights: insights,
		cache:    cache,
		logger:   logger.Named("grpc-handler"),
		cacheTTL: ttl,
	}
}

func parseRange(req *structpb.Struct) (aggregator.Range, error) {
	raw := req.GetFields()[rangeField]
	if raw == nil {
		return aggregator.RangeAll, nil
	}
	s, ok := raw.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Error(codes.InvalidArgument, "range must be a string")
	}
	r, err := aggregator.ParseRange(s.StringValue)
	if err != nil {
		return "", status.Error(codes.InvalidArgument, err.Error())
	}
	return r, nil
}

func normalizeKey(prefix CacheKeyType, r aggregator.Range, generation uint64) string {
	return fmt.Sprintf("%s:%s:v%d", prefix, r, generation)
}

func (s *GRPCHandlers) key(prefix CacheKeyType, r aggregator.Range) string {
	return normalizeKey(prefix, r, s.generation.Load())
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrNoFeedback):
		s.logger.Info("no feedback stored", zap.String("op", op))
		return status.Error(codes.NotFound, service.ErrNoFeedback.Error())
	case errors.Is(err, service.ErrNoDataForRange):
		s.logger.Info("no data for range", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, feedback.ErrUnusable):
		s.logger.Info("unusable payload", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	case errors.Is(err, charts.ErrRender):
		s.logger.Error("render failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "chart rendering failed")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

// toStruct converts v to a Struct through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GRPCHandlers) respond(ctx context.Context, op string, v any, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, s.handleError(ctx, op, err)
	}
	out, err := toStruct(v)
	if err != nil {
		s.logger.Error("response encoding failed", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed: encode response", op)
	}
	return out, nil
}

func (s *GRPCHandlers) chart(ctx context.Context, op string, key CacheKeyType, r aggregator.Range, fetch func(context.Context) (charts.Chart, error)) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	c, err := FindAndCache(ctx, s.cache, &s.sfGroup, s.key(key, r), s.cacheTTL, s.logger, fetch)
	return s.respond(ctx, op, c, err)
}

func (s *GRPCHandlers) GetDistribution(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.chart(ctx, "GetDistribution", cacheKeyDistribution, aggregator.RangeAll, s.insights.Distribution)
}

func (s *GRPCHandlers) GetPositiveBreakdown(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.chart(ctx, "GetPositiveBreakdown", cacheKeyPositiveBreakdown, aggregator.RangeAll, s.insights.PositiveBreakdown)
}

func (s *GRPCHandlers) GetTopTopics(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.chart(ctx, "GetTopTopics", cacheKeyTopTopics, aggregator.RangeAll, s.insights.TopTopics)
}

func (s *GRPCHandlers) GetTimeline(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r, err := parseRange(req)
	if err != nil {
		return nil, err
	}
	return s.chart(ctx, "GetTimeline", cacheKeyTimeline, r, func(ctx context.Context) (charts.Chart, error) {
		return s.insights.Timeline(ctx, r)
	})
}

func (s *GRPCHandlers) GetStackedArea(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r, err := parseRange(req)
	if err != nil {
		return nil, err
	}
	return s.chart(ctx, "GetStackedArea", cacheKeyStackedArea, r, func(ctx context.Context) (charts.Chart, error) {
		return s.insights.StackedArea(ctx, r)
	})
}

func (s *GRPCHandlers) GetIssueTrend(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r, err := parseRange(req)
	if err != nil {
		return nil, err
	}
	return s.chart(ctx, "GetIssueTrend", cacheKeyIssueTrend, r, func(ctx context.Context) (charts.Chart, error) {
		return s.insights.IssueTrend(ctx, r)
	})
}

func (s *GRPCHandlers) GetOverview(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r, err := parseRange(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	o, err := FindAndCache(ctx, s.cache, &s.sfGroup, s.key(cacheKeyOverview, r), s.cacheTTL, s.logger, func(fetchCtx context.Context) (service.Overview, error) {
		return s.insights.Overview(fetchCtx, r)
	})
	return s.respond(ctx, "GetOverview", o, err)
}

// ImportResponse is the result of ImportFeedback. Mismatches compare the
// payload's shipped statistics with the imported records.
type ImportResponse struct {
	service.ImportSummary
	Mismatches []feedback.Mismatch `json:"mismatches,omitempty"`
}

// ImportFeedback stores an analysis payload ({status, data, statistics}),
// moves the cache generation on and drops every cached response.
func (s *GRPCHandlers) ImportFeedback(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "ImportFeedback"

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	raw, err := protojson.Marshal(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "malformed request")
	}
	ds, err := feedback.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, s.handleError(ctx, op, err)
	}

	summary, err := s.insights.Import(ctx, ds.Records)
	if err != nil {
		return nil, s.handleError(ctx, op, err)
	}
	s.generation.Add(1)
	s.invalidate()

	resp := ImportResponse{ImportSummary: summary}
	if len(ds.Statistics) > 0 {
		resp.Mismatches = ds.CrossCheck(aggregator.ByCategory(ds.Records).Tally)
	}
	return s.respond(ctx, op, resp, nil)
}

func (s *GRPCHandlers) invalidate() {
	inv, ok := s.cache.(prefixInvalidator)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
	defer cancel()

	n, err := inv.InvalidatePrefix(ctx, cachePrefix)
	if err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
		return
	}
	s.logger.Debug("cache invalidated", zap.Int("keys", n))
}

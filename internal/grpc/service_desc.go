package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "feedback.v1.FeedbackInsights"

// FeedbackInsightsServer is the server API. Every method exchanges
// google.protobuf.Struct messages.
type FeedbackInsightsServer interface {
	ImportFeedback(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDistribution(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPositiveBreakdown(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTimeline(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStackedArea(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTopTopics(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetIssueTrend(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetOverview(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(FeedbackInsightsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) gogrpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return gogrpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(FeedbackInsightsServer), ctx, in)
			}
			info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(FeedbackInsightsServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var FeedbackInsightsServiceDesc = gogrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FeedbackInsightsServer)(nil),
	Methods: []gogrpc.MethodDesc{
		unaryMethod("ImportFeedback", FeedbackInsightsServer.ImportFeedback),
		unaryMethod("GetDistribution", FeedbackInsightsServer.GetDistribution),
		unaryMethod("GetPositiveBreakdown", FeedbackInsightsServer.GetPositiveBreakdown),
		unaryMethod("GetTimeline", FeedbackInsightsServer.GetTimeline),
		unaryMethod("GetStackedArea", FeedbackInsightsServer.GetStackedArea),
		unaryMethod("GetTopTopics", FeedbackInsightsServer.GetTopTopics),
		unaryMethod("GetIssueTrend", FeedbackInsightsServer.GetIssueTrend),
		unaryMethod("GetOverview", FeedbackInsightsServer.GetOverview),
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "feedback/v1/insights",
}

func RegisterFeedbackInsightsServer(s gogrpc.ServiceRegistrar, srv FeedbackInsightsServer) {
	s.RegisterService(&FeedbackInsightsServiceDesc, srv)
}

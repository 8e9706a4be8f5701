package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/godilite/feedback-insights/internal/aggregator"
	"github.com/godilite/feedback-insights/internal/charts"
	"github.com/godilite/feedback-insights/internal/feedback"
	handler "github.com/godilite/feedback-insights/internal/grpc"
	"github.com/godilite/feedback-insights/internal/insights"
	"github.com/godilite/feedback-insights/internal/service"
)

const remoteTimeout = 30 * time.Second

type chartFetch func(ctx context.Context) (charts.Chart, error)

// source is where a report reads its charts from: the local store or a server.
type source struct {
	charts   []chartFetch
	overview func(ctx context.Context) (service.Overview, error)
}

func newReportCmd(c *cli) *cobra.Command {
	var (
		rangeName   string
		addr        string
		payloadPath string
	)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print every dashboard chart and the overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := aggregator.ParseRange(rangeName)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if payloadPath != "" {
				return c.reportPayload(ctx, cmd, payloadPath, r)
			}
			if addr != "" {
				conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
				if err != nil {
					return fmt.Errorf("failed to connect to %s: %w", addr, err)
				}
				defer conn.Close()

				ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
				defer cancel()
				return writeReport(ctx, cmd.OutOrStdout(), remoteSource(handler.NewClient(conn), r))
			}

			d, closeStore, err := c.dashboard(ctx, charts.RendererFunc(func(context.Context, charts.Chart) error { return nil }))
			if err != nil {
				return err
			}
			defer closeStore()
			return writeReport(ctx, cmd.OutOrStdout(), localSource(d, r))
		},
	}

	reportCmd.Flags().StringVarP(&rangeName, "range", "r", string(aggregator.RangeAll),
		"Time range: all, lastMonth, lastQuarter, last6Months, lastYear (or month, quarter, 6months, year)")
	reportCmd.Flags().StringVar(&addr, "addr", "", "Read from a running server at host:port instead of the local store")
	reportCmd.Flags().StringVar(&payloadPath, "payload", "", "Read an analysis payload file (or - for stdin) instead of the local store")
	reportCmd.MarkFlagsMutuallyExclusive("addr", "payload")
	return reportCmd
}

// reportPayload reports straight from an analysis payload without storing it.
// An unusable payload is shown as an empty dashboard.
func (c *cli) reportPayload(ctx context.Context, cmd *cobra.Command, path string, r aggregator.Range) error {
	in, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer in.Close()

	w := cmd.OutOrStdout()
	ds, err := feedback.DecodeOrEmpty(in)
	switch {
	case ds.Fallback:
		c.logger.Warn("unusable payload, reporting empty dashboard", zap.Error(err))
		fmt.Fprintf(w, "no usable data in payload (%v), showing an empty dashboard\n", err)
	case err != nil:
		return err
	}

	cfg, err := insights.LoadConfig(c.cfg.InsightsConfigPath)
	if err != nil {
		return err
	}
	return writeReport(ctx, w, payloadSource(ds, r, cfg, c.logger))
}

func localSource(d *service.DashboardService, r aggregator.Range) source {
	return source{
		charts: []chartFetch{
			d.Distribution,
			d.TopTopics,
			d.PositiveBreakdown,
			func(ctx context.Context) (charts.Chart, error) { return d.Timeline(ctx, r) },
			func(ctx context.Context) (charts.Chart, error) { return d.StackedArea(ctx, r) },
			func(ctx context.Context) (charts.Chart, error) { return d.IssueTrend(ctx, r) },
		},
		overview: func(ctx context.Context) (service.Overview, error) { return d.Overview(ctx, r) },
	}
}

func remoteSource(cl *handler.Client, r aggregator.Range) source {
	return source{
		charts: []chartFetch{
			func(ctx context.Context) (charts.Chart, error) { return cl.Distribution(ctx) },
			func(ctx context.Context) (charts.Chart, error) { return cl.TopTopics(ctx) },
			func(ctx context.Context) (charts.Chart, error) { return cl.PositiveBreakdown(ctx) },
			func(ctx context.Context) (charts.Chart, error) { return cl.Timeline(ctx, r) },
			func(ctx context.Context) (charts.Chart, error) { return cl.StackedArea(ctx, r) },
			func(ctx context.Context) (charts.Chart, error) { return cl.IssueTrend(ctx, r) },
		},
		overview: func(ctx context.Context) (service.Overview, error) { return cl.Overview(ctx, r) },
	}
}

func payloadSource(ds feedback.Dataset, r aggregator.Range, cfg insights.Config, logger *zap.Logger) source {
	b := charts.NewBuilder(charts.RendererFunc(func(context.Context, charts.Chart) error { return nil }), logger)
	records := ds.Records
	return source{
		charts: []chartFetch{
			func(ctx context.Context) (charts.Chart, error) { return b.Distribution(ctx, records) },
			func(ctx context.Context) (charts.Chart, error) { return b.TopTopics(ctx, records) },
			func(ctx context.Context) (charts.Chart, error) { return b.PositiveBreakdown(ctx, records) },
			func(ctx context.Context) (charts.Chart, error) { return b.Timeline(ctx, records, r) },
			func(ctx context.Context) (charts.Chart, error) { return b.StackedArea(ctx, records, r) },
			func(ctx context.Context) (charts.Chart, error) { return b.IssueTrend(ctx, records, r) },
		},
		overview: func(context.Context) (service.Overview, error) {
			return service.BuildOverview(ds, r, cfg, time.Now)
		},
	}
}

// isEmpty reports whether err only says there is nothing to show.
func isEmpty(err error) bool {
	return errors.Is(err, service.ErrNoFeedback) ||
		errors.Is(err, service.ErrNoDataForRange) ||
		status.Code(err) == codes.NotFound
}

// noFeedback reports whether the store holds nothing at all, locally or remotely.
func noFeedback(err error) bool {
	if errors.Is(err, service.ErrNoFeedback) {
		return true
	}
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.NotFound && st.Message() == service.ErrNoFeedback.Error()
}

func emptyMessage(err error) string {
	if st, ok := status.FromError(err); ok {
		return st.Message()
	}
	return err.Error()
}

func writeReport(ctx context.Context, w io.Writer, src source) error {
	text := charts.NewTextRenderer(w)

	for _, fetch := range src.charts {
		c, err := fetch(ctx)
		switch {
		case err == nil, c.NoData:
			if err := text.Render(ctx, c); err != nil {
				return err
			}
		case isEmpty(err):
			fmt.Fprintf(w, "\n  %s\n", emptyMessage(err))
			if noFeedback(err) {
				return nil
			}
		default:
			return err
		}
	}

	o, err := src.overview(ctx)
	if err != nil {
		if isEmpty(err) {
			fmt.Fprintf(w, "\n  %s\n", emptyMessage(err))
			return nil
		}
		return err
	}
	return writeOverview(w, o)
}

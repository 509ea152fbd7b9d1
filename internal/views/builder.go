package views

import (
	"context"

	"churnscope/domain/churn"
	"churnscope/domain/core"

	"golang.org/x/sync/errgroup"
)

// BuildAll computes every aggregate for ds concurrently. ds is shared read-only across
// the workers; a nil ds is treated as empty.
func BuildAll(ctx context.Context, ds *churn.Dataset) (*Dashboard, error) {
	if ds == nil {
		ds = churn.NewDataset(nil, nil)
	}

	d := &Dashboard{}
	g, ctx := errgroup.WithContext(ctx)
	step := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	step(func() { d.Overview = BuildOverview(ds) })
	step(func() { d.Pie = BuildChurnPie(ds) })
	step(func() { d.Bubble = BuildBubble(ds) })
	step(func() { d.Trend = BuildTenureTrend(ds) })
	step(func() { d.Density = BuildDensity(ds) })
	step(func() { d.Hierarchy = BuildHierarchy(ds) })
	step(func() { d.Correlations = BuildCorrelations(ds) })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// Partial returns a Dashboard with only the named view's aggregate filled in
func Partial(ds *churn.Dataset, name Name) (*Dashboard, error) {
	if ds == nil {
		ds = churn.NewDataset(nil, nil)
	}
	d := &Dashboard{}
	switch name {
	case ViewOverview:
		d.Overview = BuildOverview(ds)
	case ViewPie:
		d.Pie = BuildChurnPie(ds)
	case ViewBubble:
		d.Bubble = BuildBubble(ds)
	case ViewTrend:
		d.Trend = BuildTenureTrend(ds)
	case ViewDensity:
		d.Density = BuildDensity(ds)
	case ViewTreemap, ViewSunburst:
		d.Hierarchy = BuildHierarchy(ds)
	case ViewCorrelation:
		d.Correlations = BuildCorrelations(ds)
	default:
		return nil, core.ErrViewNotFound
	}
	return d, nil
}

// Build computes the aggregate for a single view
func Build(ds *churn.Dataset, name Name) (interface{}, error) {
	d, err := Partial(ds, name)
	if err != nil {
		return nil, err
	}
	v, _ := d.View(name)
	return v, nil
}

// Package pipeline orchestrates the vetting flow: parse a raw target,
// resolve it against the archive, assemble a feature vector, and score it
// with the calibrated mission model.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/exoscout/exoscout/internal/archive"
	"github.com/exoscout/exoscout/internal/cache"
	"github.com/exoscout/exoscout/internal/cutout"
	"github.com/exoscout/exoscout/internal/domain"
	"github.com/exoscout/exoscout/internal/features"
	"github.com/exoscout/exoscout/internal/lightcurve"
	"github.com/exoscout/exoscout/internal/logger"
	"github.com/exoscout/exoscout/internal/model"
	"github.com/exoscout/exoscout/internal/resolver"
	"github.com/exoscout/exoscout/internal/target"
	"github.com/exoscout/exoscout/internal/telemetry"
)

// ErrNoPhotometrySource indicates no lightcurve provider was configured.
var ErrNoPhotometrySource = errors.New("no photometry source configured")

// Pipeline wires the vetting stages together. Stages stay pure; caching
// happens only at the archive boundary.
type Pipeline struct {
	resolver    *resolver.Resolver
	archive     archive.Querier
	models      *model.Service
	store       cache.Store
	cacheTTL    time.Duration
	sectors     cutout.SectorLister
	lightcurves lightcurve.Provider
	tel         *telemetry.Provider
	log         logger.Logger
}

// New assembles a pipeline from its collaborators. sectors and lightcurves
// may be nil; the corresponding operations then report unavailability.
func New(res *resolver.Resolver, querier archive.Querier, models *model.Service, store cache.Store, cacheTTL time.Duration, sectors cutout.SectorLister, lightcurves lightcurve.Provider, tel *telemetry.Provider, log logger.Logger) *Pipeline {
	return &Pipeline{
		resolver:    res,
		archive:     querier,
		models:      models,
		store:       store,
		cacheTTL:    cacheTTL,
		sectors:     sectors,
		lightcurves: lightcurves,
		tel:         tel,
		log:         log,
	}
}

// Resolve parses a raw target string and resolves it to a primary catalog
// id with metadata.
func (p *Pipeline) Resolve(ctx context.Context, rawTarget string) (domain.Resolution, error) {
	ctx, span := p.tel.StartSpan(ctx, "pipeline.resolve",
		attribute.String("target.raw", rawTarget))
	defer span.End()

	parsed, err := target.Parse(rawTarget)
	if err != nil {
		return domain.Resolution{}, err
	}
	span.SetAttributes(attribute.String("target.mission", parsed.Mission.String()))

	return p.resolver.Resolve(ctx, parsed)
}

// Features returns the cleaned catalog feature row for a primary target
// id. Rows are cached at the archive boundary.
func (p *Pipeline) Features(ctx context.Context, mission domain.Mission, targetID string) (map[string]any, error) {
	ctx, span := p.tel.StartSpan(ctx, "pipeline.features",
		attribute.String("target.mission", mission.String()),
		attribute.String("target.id", targetID))
	defer span.End()

	row, err := p.featureRow(ctx, mission, targetID)
	if err != nil {
		return nil, err
	}
	return features.Clean(row), nil
}

// Predict runs the full vetting flow for a primary target id: fetch the
// catalog row, assemble the mission's feature vector, and score it.
func (p *Pipeline) Predict(ctx context.Context, mission domain.Mission, targetID string) (domain.PredictionResult, error) {
	started := time.Now()
	ctx, span := p.tel.StartSpan(ctx, "pipeline.predict",
		attribute.String("target.mission", mission.String()),
		attribute.String("target.id", targetID))
	defer span.End()

	artifact, err := p.models.Load(ctx, mission)
	if err != nil {
		p.tel.RecordPredictionError(mission.String(), string(domain.KindOf(err)))
		return domain.PredictionResult{}, err
	}

	row, err := p.featureRow(ctx, mission, targetID)
	if err != nil {
		p.tel.RecordPredictionError(mission.String(), string(domain.KindOf(err)))
		return domain.PredictionResult{}, err
	}

	vector := features.Assemble(row, artifact.FeatureOrder)
	if len(vector.Defaulted) > 0 {
		p.log.Warn("feature slots defaulted to sentinel",
			logger.String("mission", mission.String()),
			logger.String("target_id", targetID),
			logger.Strings("defaulted", vector.Defaulted))
	}

	result := p.models.Predict(artifact, vector.Values)
	result.TargetID = targetID
	result.UsedFeatures = features.Clean(row)

	p.tel.RecordPrediction(ctx, mission.String(), string(result.Classification),
		vector.Coverage(), time.Since(started))
	return result, nil
}

// ModelStatus reports per-mission artifact availability.
func (p *Pipeline) ModelStatus(ctx context.Context) map[domain.Mission]model.Status {
	return p.models.MissionStatus(ctx)
}

// Sectors looks up a target's sky coordinates and lists the sectors in
// which that position was observed.
func (p *Pipeline) Sectors(ctx context.Context, mission domain.Mission, targetID string) (ra, dec float64, sectors []cutout.Sector, err error) {
	if p.sectors == nil {
		return 0, 0, nil, ErrNoPhotometrySource
	}
	ctx, span := p.tel.StartSpan(ctx, "pipeline.sectors",
		attribute.String("target.mission", mission.String()),
		attribute.String("target.id", targetID))
	defer span.End()

	ra, dec, err = p.resolver.Coordinates(ctx, mission, targetID)
	if err != nil {
		return 0, 0, nil, err
	}
	sectors, err = p.sectors.Sectors(ctx, ra, dec)
	if err != nil {
		return 0, 0, nil, err
	}
	return ra, dec, sectors, nil
}

// Lightcurve fetches photometry for a target and summarizes it.
func (p *Pipeline) Lightcurve(ctx context.Context, mission domain.Mission, targetID, sector string) (lightcurve.Series, lightcurve.Stats, error) {
	if p.lightcurves == nil {
		return lightcurve.Series{}, lightcurve.Stats{}, ErrNoPhotometrySource
	}
	ctx, span := p.tel.StartSpan(ctx, "pipeline.lightcurve",
		attribute.String("target.mission", mission.String()),
		attribute.String("target.id", targetID))
	defer span.End()

	series, err := p.lightcurves.Fetch(ctx, targetID, sector)
	if err != nil {
		return lightcurve.Series{}, lightcurve.Stats{}, err
	}
	return series, lightcurve.Summarize(series), nil
}

// featureRow fetches the archive feature row for a target, cache-aside. A
// target with no row is NotFound: a prediction must never be computed from
// an all-default vector.
func (p *Pipeline) featureRow(ctx context.Context, mission domain.Mission, targetID string) (domain.CatalogRecord, error) {
	query, err := archive.FeaturesQuery(mission, targetID)
	if err != nil {
		return nil, err
	}

	key := cache.Key("features", mission.String(), targetID)
	rows, hit, err := cache.GetOrFetch(ctx, p.store, key, p.cacheTTL,
		func(ctx context.Context) ([]domain.CatalogRecord, error) {
			return p.archive.Query(ctx, query)
		})
	if err != nil {
		return nil, err
	}
	p.tel.RecordCache("features", hit)

	if len(rows) == 0 {
		return nil, domain.NewError(domain.KindNotFound, "pipeline.features",
			fmt.Sprintf("no catalog row for %s target %s", mission, targetID), nil)
	}
	return rows[0], nil
}

// Package googlemaps computes road travel distances with the Distance Matrix
// API.
package googlemaps

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"googlemaps.github.io/maps"
)

const serviceMaps = "googlemaps"

var ErrNoRoute = errors.New("no route found")

type matrixClient interface {
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
}

var _ ports.RouteDistance = (*RouteDistance)(nil)

type RouteDistance struct {
	client matrixClient
}

// NewRouteDistance creates a RouteDistance with the given API key.
func NewRouteDistance(apiKey string) (*RouteDistance, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteDistance{client: client}, nil
}

// TravelKm returns the driving distance between two points.
func (d *RouteDistance) TravelKm(ctx context.Context, from kernel.Location, to kernel.Location) (float64, error) {
	r := &maps.DistanceMatrixRequest{
		Origins:      []string{latLng(from)},
		Destinations: []string{latLng(to)},
		Mode:         maps.TravelModeDriving,
	}

	resp, err := d.client.DistanceMatrix(ctx, r)
	if err != nil {
		return 0, errs.NewExternalServiceError(serviceMaps, err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, errs.NewExternalServiceError(serviceMaps, ErrNoRoute)
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return 0, errs.NewExternalServiceError(serviceMaps, fmt.Errorf("%w: status %s", ErrNoRoute, element.Status))
	}
	return float64(element.Distance.Meters) / 1000, nil
}

func latLng(l kernel.Location) string {
	return fmt.Sprintf("%f,%f", l.Lat(), l.Lon())
}

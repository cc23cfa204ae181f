// Package redisgeo reads the live driver position feed from Redis. The driver
// app writes one hash per driver under "driver:<id>"; the core only reads it.
package redisgeo

import (
	"context"
	"strconv"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "driver:"

// DriverLocations implements the live position feed port on top of Redis.
type DriverLocations struct {
	rdb *redis.Client
}

// NewDriverLocations wraps the given Redis client.
func NewDriverLocations(rdb *redis.Client) *DriverLocations {
	return &DriverLocations{rdb: rdb}
}

// Get returns the latest position for one driver, or nil if the driver has
// never reported.
func (l *DriverLocations) Get(ctx context.Context, driverID kernel.UUID) (*ports.DriverPosition, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	fields, err := l.rdb.HGetAll(ctx, keyPrefix+driverID.String()).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	position, err := parsePosition(driverID, fields)
	if err != nil {
		return nil, err
	}
	return position, nil
}

// GetAll returns the latest position of every reporting driver. Entries with
// malformed coordinates are skipped rather than failing the whole snapshot.
func (l *DriverLocations) GetAll(ctx context.Context) ([]ports.DriverPosition, error) {
	keys, err := l.rdb.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	positions := make([]ports.DriverPosition, 0, len(keys))
	for _, key := range keys {
		driverID, err := kernel.UUIDFromString(strings.TrimPrefix(key, keyPrefix))
		if err != nil {
			continue
		}

		fields, err := l.rdb.HGetAll(ctx, key).Result()
		if err != nil || len(fields) == 0 {
			continue
		}

		position, err := parsePosition(driverID, fields)
		if err != nil {
			continue
		}
		positions = append(positions, *position)
	}

	return positions, nil
}

// parsePosition builds a DriverPosition from the raw hash fields.
func parsePosition(driverID kernel.UUID, fields map[string]string) (*ports.DriverPosition, error) {
	latitude, err := strconv.ParseFloat(fields["latitude"], 64)
	if err != nil {
		return nil, err
	}

	longitude, err := strconv.ParseFloat(fields["longitude"], 64)
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(latitude, longitude)
	if err != nil {
		return nil, err
	}

	return &ports.DriverPosition{
		DriverID:  driverID,
		Location:  location,
		Available: fields["available"] == "true",
	}, nil
}

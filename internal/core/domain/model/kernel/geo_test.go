package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("valid_coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(-4.325, 15.3222)

		require.NoError(t, err)
		assert.InEpsilon(t, -4.325, point.Latitude(), 1e-9)
		assert.InEpsilon(t, 15.3222, point.Longitude(), 1e-9)
		require.NoError(t, point.Validate())
	})

	t.Run("boundary_coordinates", func(t *testing.T) {
		tests := []struct {
			name     string
			lat, lng float64
		}{
			{"north_pole", 90, 0},
			{"south_pole", -90, 0},
			{"date_line_east", 0, 180},
			{"date_line_west", 0, -180},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := kernel.NewGeoPoint(tt.lat, tt.lng)
				require.NoError(t, err)
			})
		}
	})

	t.Run("out_of_range_coordinates", func(t *testing.T) {
		tests := []struct {
			name     string
			lat, lng float64
		}{
			{"latitude_too_high", 90.01, 0},
			{"latitude_too_low", -90.01, 0},
			{"longitude_too_high", 0, 180.01},
			{"longitude_too_low", 0, -180.01},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := kernel.NewGeoPoint(tt.lat, tt.lng)
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
			})
		}
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero_value_is_invalid", func(t *testing.T) {
		var point kernel.GeoPoint

		require.Error(t, point.Validate())
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	t.Run("equal_points", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(-4.325, 15.3222)
		b, _ := kernel.NewGeoPoint(-4.325, 15.3222)

		equal, err := a.IsEqual(b)

		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("different_points", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(-4.325, 15.3222)
		b, _ := kernel.NewGeoPoint(-4.341, 15.3135)

		equal, err := a.IsEqual(b)

		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("zero_value_fails", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(-4.325, 15.3222)
		var b kernel.GeoPoint

		_, err := a.IsEqual(b)

		require.Error(t, err)
	})
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	t.Run("distance_to_self_is_zero", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(-4.325, 15.3222)

		km, err := point.DistanceKm(point)

		require.NoError(t, err)
		assert.Zero(t, km)
	})

	t.Run("distance_is_symmetric", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(-4.325, 15.3222)
		b, _ := kernel.NewGeoPoint(-4.341, 15.3135)

		ab, err := a.DistanceKm(b)
		require.NoError(t, err)
		ba, err := b.DistanceKm(a)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 1e-9)
	})

	t.Run("one_degree_of_longitude_at_equator", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(0, 0)
		b, _ := kernel.NewGeoPoint(0, 1)

		km, err := a.DistanceKm(b)

		require.NoError(t, err)
		assert.InDelta(t, 111.19, km, 0.1)
	})

	t.Run("nearby_points_within_city", func(t *testing.T) {
		seller, _ := kernel.NewGeoPoint(-4.3250, 15.3222)
		driver, _ := kernel.NewGeoPoint(-4.3410, 15.3135)

		km, err := seller.DistanceKm(driver)

		require.NoError(t, err)
		assert.InDelta(t, 2.0, km, 0.1)
	})

	t.Run("zero_value_fails", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(0, 0)
		var b kernel.GeoPoint

		_, err := a.DistanceKm(b)

		require.Error(t, err)
	})
}

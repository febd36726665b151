package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aquasense-design/internal/models"
)

func features() models.Features {
	return models.InfluentSample{PH: 7, TDS: 500, Turbidity: 5, BOD: 5, COD: 20, TotalNitrogen: 3, Temperature: 20, FlowM3PerDay: 1000}.Features()
}

func TestDesignKey(t *testing.T) {
	assert.Equal(t, "aquasense:design:7,500,5,5,20,3,20,1000,0", DesignKey(features()))
}

func TestDesignCache_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	cache := NewDesignCache(NewRedisKV(client), time.Minute, zap.NewNop())

	assert.Nil(t, cache.Get(ctx, features()))

	resp := &models.DesignResponse{
		PredictedType:  1,
		StageTimesMin:  map[string]float64{"t_screening_min": 1.25},
		StageEquipment: map[string]string{"equip_screening": "coarse_bar_screen"},
		CostPerM3INR:   12.5,
	}
	cache.Put(ctx, features(), resp)

	got := cache.Get(ctx, features())
	require.NotNil(t, got)
	assert.Equal(t, resp, got)

	n, err := cache.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	removed, err := cache.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Nil(t, cache.Get(ctx, features()))

	cache.Put(ctx, features(), resp)
	mr.FastForward(2 * time.Minute)
	assert.Nil(t, cache.Get(ctx, features()))
}

func TestDesignCache_CorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set(DesignKey(features()), "{not json"))
	cache := NewDesignCache(NewRedisKV(client), 0, zap.NewNop())
	assert.Nil(t, cache.Get(context.Background(), features()))
}

func TestRedisKV_Miss(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	_, err := NewRedisKV(client).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrMiss)
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/NavalhaApps/agenda-api/internal/domain/scheduling"
)

// CachedRepository decora o repositório de agendamento com cache redis
// das leituras de configuração (expediente e política do prestador).
// Slots derivados nunca são cacheados: são recalculados a cada consulta.
// Qualquer falha do redis cai direto no repositório interno.
type CachedRepository struct {
	scheduling.Repository

	rdb *redis.Client
	ttl time.Duration
}

func NewCachedRepository(inner scheduling.Repository, rdb *redis.Client) *CachedRepository {
	return &CachedRepository{
		Repository: inner,
		rdb:        rdb,
		ttl:        5 * time.Minute,
	}
}

func workingDayKey(barberID uint, weekday int) string {
	return fmt.Sprintf("agenda:wh:%d:%d", barberID, weekday)
}

func policyKey(barberID uint) string {
	return fmt.Sprintf("agenda:policy:%d", barberID)
}

func (c *CachedRepository) GetWorkingDay(
	ctx context.Context,
	barberID uint,
	weekday int,
) (scheduling.WorkingDay, error) {

	key := workingDayKey(barberID, weekday)

	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var wd scheduling.WorkingDay
		if err := json.Unmarshal([]byte(raw), &wd); err == nil {
			return wd, nil
		}
	}

	wd, err := c.Repository.GetWorkingDay(ctx, barberID, weekday)
	if err != nil {
		return wd, err
	}

	if b, err := json.Marshal(wd); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache set failed")
		}
	}

	return wd, nil
}

func (c *CachedRepository) GetProviderPolicy(
	ctx context.Context,
	barberID uint,
) (scheduling.ProviderPolicy, error) {

	key := policyKey(barberID)

	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var p scheduling.ProviderPolicy
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return p, nil
		}
	}

	p, err := c.Repository.GetProviderPolicy(ctx, barberID)
	if err != nil {
		return p, err
	}

	if b, err := json.Marshal(p); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache set failed")
		}
	}

	return p, nil
}

// InvalidateWorkingHours é chamada quando o barbeiro salva um novo
// expediente.
func (c *CachedRepository) InvalidateWorkingHours(ctx context.Context, barberID uint) {
	keys := make([]string, 0, 7)
	for wd := 0; wd < 7; wd++ {
		keys = append(keys, workingDayKey(barberID, wd))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Debug().Err(err).Uint("barber_id", barberID).Msg("cache invalidation failed")
	}
}

func (c *CachedRepository) InvalidatePolicy(ctx context.Context, barberID uint) {
	if err := c.rdb.Del(ctx, policyKey(barberID)).Err(); err != nil {
		log.Debug().Err(err).Uint("barber_id", barberID).Msg("cache invalidation failed")
	}
}

var _ scheduling.Repository = (*CachedRepository)(nil)

package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mybakup/appointment-service/internal/domain"
)

// Store хранилище сессий мастера записи в Redis
type Store struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	retries int
}

// NewStore создает хранилище сессий
func NewStore(client redis.UniversalClient, prefix string, ttl time.Duration, retries int) *Store {
	if ttl <= 0 {
		ttl = domain.DefaultWizardTTL
	}
	if retries <= 0 {
		retries = 1
	}
	return &Store{
		client:  client,
		prefix:  prefix,
		ttl:     ttl,
		retries: retries,
	}
}

// Create сохраняет новую сессию
func (s *Store) Create(ctx context.Context, w *domain.Wizard) error {
	payload, err := json.Marshal(toRecord(w))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	ok, err := s.client.SetNX(ctx, s.key(w.ID), payload, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: SetNX: %v", ErrRedis, err)
	}
	if !ok {
		return ErrWizardExists
	}

	return nil
}

// Get возвращает сессию по ID
func (s *Store) Get(ctx context.Context, id string) (*domain.Wizard, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrWizardNotFound
		}
		return nil, fmt.Errorf("%w: Get: %v", ErrRedis, err)
	}

	return decode(data)
}

// Update читает сессию, применяет fn и записывает результат.
// Конкурирующая запись между чтением и записью перезапускает попытку (WATCH/MULTI),
// поэтому fn может быть вызвана несколько раз. Ошибка fn отменяет запись и возвращается как есть.
// Каждая успешная запись продлевает TTL.
func (s *Store) Update(ctx context.Context, id string, fn func(w *domain.Wizard) error) (*domain.Wizard, error) {
	key := s.key(id)
	var updated *domain.Wizard

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrWizardNotFound
			}
			return fmt.Errorf("%w: Get: %v", ErrRedis, err)
		}

		w, err := decode(data)
		if err != nil {
			return err
		}

		if err := fn(w); err != nil {
			return err
		}

		payload, err := json.Marshal(toRecord(w))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = w
		return nil
	}

	for attempt := 0; attempt < s.retries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, ErrConflict
}

// Delete удаляет сессию. Удаление отсутствующей сессии не является ошибкой.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: Del: %v", ErrRedis, err)
	}
	return nil
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func decode(data []byte) (*domain.Wizard, error) {
	var rec wizardRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	w, err := rec.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return w, nil
}

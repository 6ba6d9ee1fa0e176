package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/route"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/shared/geo"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound     = errors.New("draft not found")
	ErrInvalidPoint = errors.New("invalid point")
	ErrUnavailable  = errors.New("draft store unavailable")
)

type Service struct {
	redis *redis.Client
	ttl   time.Duration
	now   func() time.Time
}

func NewService(redisClient *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{redis: redisClient, ttl: ttl, now: time.Now}
}

func key(id string) string {
	return "draft:" + id
}

func (s *Service) Create(ctx context.Context, ownerID string, points []geo.Point) (Draft, error) {
	if err := validatePoints(points); err != nil {
		return Draft{}, err
	}
	now := s.now().UTC()
	d := Draft{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Points:    append([]geo.Point{}, points...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (Draft, error) {
	if s.redis == nil {
		return Draft{}, ErrUnavailable
	}
	raw, err := s.redis.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, err
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return Draft{}, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return d, nil
}

// Points returns the stored route of a draft.
func (s *Service) Points(ctx context.Context, id string) ([]geo.Point, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.Points, nil
}

func (s *Service) ReplacePoints(ctx context.Context, id string, points []geo.Point) (Draft, error) {
	if err := validatePoints(points); err != nil {
		return Draft{}, err
	}
	d, err := s.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	d.Points = append([]geo.Point{}, points...)
	d.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func (s *Service) AppendPoint(ctx context.Context, id string, p geo.Point) (Draft, error) {
	if !p.Valid() {
		return Draft{}, ErrInvalidPoint
	}
	d, err := s.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	d.Points = append(d.Points, p)
	d.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func (s *Service) Clear(ctx context.Context, id string) error {
	if s.redis == nil {
		return ErrUnavailable
	}
	n, err := s.redis.Del(ctx, key(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Summary(ctx context.Context, id string) (Summary, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{DraftID: d.ID, PointCount: len(d.Points)}
	if len(d.Points) >= 2 {
		trace, err := route.Accumulate(d.Points)
		switch {
		case errors.Is(err, route.ErrEmptyRoute):
			sum.DistanceM = 0
			sum.Degenerate = true
		case err != nil:
			return Summary{}, err
		default:
			sum.DistanceM = trace.Total
		}
		sum.Closed = len(route.CloseLoop(d.Points)) == len(d.Points)
	}
	return sum, nil
}

func (s *Service) save(ctx context.Context, d Draft) error {
	if s.redis == nil {
		return ErrUnavailable
	}
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key(d.ID), payload, s.ttl).Err()
}

func validatePoints(points []geo.Point) error {
	for i, p := range points {
		if !p.Valid() {
			return fmt.Errorf("%w at index %d", ErrInvalidPoint, i)
		}
	}
	return nil
}

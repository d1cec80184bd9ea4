package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"shopcart/internal/domain"
)

// cachedRepo is a read-through cache in front of another Repository.
// GetByID serves from redis when possible; every write invalidates the
// cached cart. Cache failures degrade to the underlying repository and
// are logged, never surfaced.
type cachedRepo struct {
	next   Repository
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func NewCached(next Repository, client *redis.Client, ttl time.Duration, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &cachedRepo{next: next, client: client, ttl: ttl, logger: logger}
}

func cacheKey(storeCode, id string) string {
	return "cart:" + storeCode + ":" + id
}

func (r *cachedRepo) GetByID(ctx context.Context, storeCode, id string) (*domain.Cart, error) {
	key := cacheKey(storeCode, id)
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var cart domain.Cart
		if err := json.Unmarshal(raw, &cart); err == nil {
			cart.StoreCode = storeCode
			cart.Recompute = domain.RecomputeClean
			return &cart, nil
		}
		r.logger.Printf("cart cache: corrupt entry key=%s", key)
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Printf("cart cache: get key=%s error=%v", key, err)
	}

	cart, err := r.next.GetByID(ctx, storeCode, id)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(cart); err == nil {
		if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
			r.logger.Printf("cart cache: set key=%s error=%v", key, err)
		}
	}
	return cart, nil
}

func (r *cachedRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	return r.next.Create(ctx, in)
}

func (r *cachedRepo) GetActiveByCustomer(ctx context.Context, storeCode, customerID string) (*domain.Cart, error) {
	return r.next.GetActiveByCustomer(ctx, storeCode, customerID)
}

func (r *cachedRepo) AddLine(ctx context.Context, line domain.CartLine) error {
	if err := r.next.AddLine(ctx, line); err != nil {
		return err
	}
	r.invalidate(ctx, line.CartID)
	return nil
}

func (r *cachedRepo) SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error {
	if err := r.next.SetLineQuantity(ctx, cartID, lineID, quantity); err != nil {
		return err
	}
	r.invalidate(ctx, cartID)
	return nil
}

func (r *cachedRepo) RemoveLine(ctx context.Context, cartID, lineID string) error {
	if err := r.next.RemoveLine(ctx, cartID, lineID); err != nil {
		return err
	}
	r.invalidate(ctx, cartID)
	return nil
}

func (r *cachedRepo) SetDestination(ctx context.Context, storeCode, cartID, countryCode string) error {
	if err := r.next.SetDestination(ctx, storeCode, cartID, countryCode); err != nil {
		return err
	}
	if err := r.client.Del(ctx, cacheKey(storeCode, cartID)).Err(); err != nil {
		r.logger.Printf("cart cache: del cart=%s error=%v", cartID, err)
	}
	return nil
}

func (r *cachedRepo) SaveDerived(ctx context.Context, cart *domain.Cart) error {
	if err := r.next.SaveDerived(ctx, cart); err != nil {
		return err
	}
	if err := r.client.Del(ctx, cacheKey(cart.StoreCode, cart.ID)).Err(); err != nil {
		r.logger.Printf("cart cache: del cart=%s error=%v", cart.ID, err)
	}
	return nil
}

// invalidate drops every store-scoped key for the cart. The store code
// is not always at hand on line-level writes, so the keys are scanned.
func (r *cachedRepo) invalidate(ctx context.Context, cartID string) {
	iter := r.client.Scan(ctx, 0, "cart:*:"+cartID, 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.logger.Printf("cart cache: del key=%s error=%v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		r.logger.Printf("cart cache: scan cart=%s error=%v", cartID, err)
	}
}

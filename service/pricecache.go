package service

import (
	"context"
	"errors"
	"fadebot/source"
	"fadebot/utils"
	"fmt"
	"github.com/shopspring/decimal"
	"github.com/tidwall/buntdb"
	"sync"
	"time"
)

const refreshedKey = "mids:refreshed"

// MidPriceCache keeps the last allMids response for ttl so that one
// generation run makes at most one upstream price request.
type MidPriceCache struct {
	mu     sync.Mutex
	db     *buntdb.DB
	source source.MarketSource
	ttl    time.Duration
}

func NewMidPriceCache(source source.MarketSource, ttl time.Duration) (*MidPriceCache, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &MidPriceCache{db: db, source: source, ttl: ttl}, nil
}

// Price returns the mid price for coin. quoted is false when a fresh price
// list does not contain the coin. err is set only when prices could not be
// fetched.
func (c *MidPriceCache) Price(ctx context.Context, coin string) (price decimal.Decimal, quoted bool, err error) {
	if price, quoted, fresh := c.cached(coin); fresh {
		return price, quoted, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if price, quoted, fresh := c.cached(coin); fresh {
		return price, quoted, nil
	}

	mids, err := c.source.GetMidPrices(ctx)
	if err != nil {
		return decimal.Zero, false, err
	}
	if err := c.store(mids); err != nil {
		return decimal.Zero, false, err
	}
	price, ok := mids[coin]
	return price, ok, nil
}

// Invalidate drops every cached price.
func (c *MidPriceCache) Invalidate() error {
	return c.db.Update(func(tx *buntdb.Tx) error {
		return tx.DeleteAll()
	})
}

func (c *MidPriceCache) Close() error {
	return c.db.Close()
}

func (c *MidPriceCache) store(mids map[string]decimal.Decimal) error {
	opts := &buntdb.SetOptions{Expires: true, TTL: c.ttl}
	return c.db.Update(func(tx *buntdb.Tx) error {
		if err := tx.DeleteAll(); err != nil {
			return err
		}
		// the marker is written first so it never outlives the prices
		if _, _, err := tx.Set(refreshedKey, time.Now().UTC().Format(time.RFC3339Nano), opts); err != nil {
			return err
		}
		for coin, price := range mids {
			if _, _, err := tx.Set("mid:"+coin, price.String(), opts); err != nil {
				return err
			}
		}
		return nil
	})
}

// lookup reads coin from the cache. fresh is false when the cache holds no
// unexpired price list. err carries read failures other than a miss.
func (c *MidPriceCache) lookup(coin string) (price decimal.Decimal, quoted bool, fresh bool, err error) {
	err = c.db.View(func(tx *buntdb.Tx) error {
		if _, err := tx.Get(refreshedKey); err != nil {
			return err
		}
		fresh = true
		raw, err := tx.Get("mid:" + coin)
		if err != nil {
			return err
		}
		price, err = decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("cached price for %s: %w", coin, err)
		}
		quoted = true
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		err = nil
	}
	return price, quoted, fresh, err
}

// cached wraps lookup for Price: a broken read is logged and treated as a
// miss so the price list is fetched again.
func (c *MidPriceCache) cached(coin string) (decimal.Decimal, bool, bool) {
	price, quoted, fresh, err := c.lookup(coin)
	if err != nil {
		utils.Log.Warnf("[PriceCache] read %s: %v", coin, err)
		return decimal.Zero, false, false
	}
	return price, quoted, fresh
}

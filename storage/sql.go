package storage

import (
	"context"
	"errors"
	"fadebot/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

type SQL struct {
	db *gorm.DB
}

var tables = []interface{}{
	&model.Trader{},
	&model.Position{},
	&model.TraderPerformance{},
	&model.Opportunity{},
}

// FromSQL creates a new SQL storage and migrates its tables. Example of usage:
//
//	import "github.com/glebarez/sqlite"
//	storage, err := storage.FromSQL(sqlite.Open("fadebot.db"), &gorm.Config{})
//	if err != nil {
//	}
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (*SQL, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if dialect.Name() == "sqlite" {
		// one writer at a time, transactions would otherwise fail with SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	}

	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			return nil, err
		}
	}

	return &SQL{
		db: db,
	}, nil
}

func (s *SQL) Transaction(ctx context.Context, fn func(tx Storage) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SQL{db: tx})
	})
}

func (s *SQL) ResetTables() error {
	for i := len(tables) - 1; i >= 0; i-- {
		if err := s.db.Migrator().DropTable(tables[i]); err != nil {
			return err
		}
	}
	for _, table := range tables {
		if err := s.db.AutoMigrate(table); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQL) GetOrCreateTrader(ctx context.Context, address string, now time.Time) (*model.Trader, error) {
	trader, err := s.GetTraderByAddress(ctx, address)
	if err == nil {
		return trader, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	trader = &model.Trader{
		Address:     address,
		FirstSeen:   now.UTC(),
		LastUpdated: now.UTC(),
		IsActive:    true,
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "address"}}, DoNothing: true}).
		Create(trader)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// created concurrently by another writer
		return s.GetTraderByAddress(ctx, address)
	}
	return trader, nil
}

func (s *SQL) GetTraderByAddress(ctx context.Context, address string) (*model.Trader, error) {
	trader := &model.Trader{}
	result := s.db.WithContext(ctx).Where("address = ?", address).First(trader)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return trader, nil
}

func (s *SQL) Traders(ctx context.Context, filterParams TraderFilterParams) ([]*model.Trader, error) {
	traders := make([]*model.Trader, 0)
	query := s.db.WithContext(ctx)
	if len(filterParams.Addresses) > 0 {
		query = query.Where("address IN ?", filterParams.Addresses)
	}
	if filterParams.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filterParams.StaleFirst {
		query = query.Order("last_updated ASC")
	}
	if filterParams.Limit > 0 {
		query = query.Limit(filterParams.Limit)
	}
	result := query.Order("id ASC").Find(&traders)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return traders, result.Error
	}
	return traders, nil
}

func (s *SQL) UpdateTrader(ctx context.Context, trader *model.Trader) error {
	return s.db.WithContext(ctx).Save(trader).Error
}

func (s *SQL) Positions(ctx context.Context, filterParams PositionFilterParams) ([]*model.Position, error) {
	positions := make([]*model.Position, 0)
	query := s.db.WithContext(ctx).Model(&model.Position{}).Select("positions.*")
	if filterParams.ActiveTraderOnly {
		query = query.Joins("JOIN traders ON traders.id = positions.trader_id").
			Where("traders.is_active = ?", true)
	}
	if filterParams.TraderID > 0 {
		query = query.Where("positions.trader_id = ?", filterParams.TraderID)
	}
	if len(filterParams.Status) > 0 {
		query = query.Where("positions.status = ?", filterParams.Status)
	}
	if len(filterParams.Coin) > 0 {
		query = query.Where("positions.coin = ?", filterParams.Coin)
	}
	if filterParams.OpenedSince != nil {
		query = query.Where("positions.opened_at >= ?", filterParams.OpenedSince.UTC())
	}
	if filterParams.ClosedSince != nil {
		query = query.Where("positions.closed_at >= ?", filterParams.ClosedSince.UTC())
	}
	if filterParams.WithTrader {
		query = query.Preload("Trader")
	}
	if filterParams.Limit > 0 {
		query = query.Limit(filterParams.Limit)
	}

	result := query.Order("positions.opened_at ASC").Order("positions.id ASC").Find(&positions)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return positions, result.Error
	}
	return positions, nil
}

func (s *SQL) CreatePosition(ctx context.Context, position *model.Position) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(position).Error
}

func (s *SQL) UpdatePosition(ctx context.Context, position *model.Position) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(position).Error
}

// UpsertPerformance writes the row for (trader, date), replacing the metrics
// of an existing one.
func (s *SQL) UpsertPerformance(ctx context.Context, performance *model.TraderPerformance) error {
	performance.Date = model.DayOf(performance.Date)
	return s.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "trader_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"pnl_percentage",
			"pnl_absolute",
			"win_rate",
			"total_trades",
			"winning_trades",
			"losing_trades",
			"avg_win",
			"avg_loss",
			"account_value",
			"updated_at",
		}),
	}).Create(performance).Error
}

func (s *SQL) Performances(ctx context.Context, filterParams PerformanceFilterParams) ([]*model.TraderPerformance, error) {
	performances := make([]*model.TraderPerformance, 0)
	query := s.db.WithContext(ctx).Where("trader_id = ?", filterParams.TraderID)
	if filterParams.Since != nil {
		query = query.Where("date >= ?", model.DayOf(*filterParams.Since))
	}
	if filterParams.NewestFirst {
		query = query.Order("date DESC")
	} else {
		query = query.Order("date ASC")
	}
	if filterParams.Limit > 0 {
		query = query.Limit(filterParams.Limit)
	}
	result := query.Find(&performances)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return performances, result.Error
	}
	return performances, nil
}

// TopLosers aggregates each active trader's snapshots since filterParams.Since
// and orders them by mean pnl percentage, worst first.
func (s *SQL) TopLosers(ctx context.Context, filterParams LoserFilterParams) ([]LoserRow, error) {
	rows := make([]LoserRow, 0)
	query := s.db.WithContext(ctx).
		Table("traders").
		Select(`traders.id AS trader_id,
			traders.address AS address,
			traders.display_name AS display_name,
			AVG(trader_performance.pnl_percentage) AS avg_pnl_percentage,
			SUM(trader_performance.pnl_absolute) AS total_pnl,
			AVG(trader_performance.win_rate) AS avg_win_rate,
			SUM(trader_performance.total_trades) AS total_trades,
			MAX(trader_performance.account_value) AS account_value,
			COUNT(trader_performance.id) AS snapshot_days`).
		Joins("JOIN trader_performance ON trader_performance.trader_id = traders.id").
		Where("traders.is_active = ?", true).
		Where("trader_performance.date >= ?", model.DayOf(filterParams.Since)).
		Group("traders.id, traders.address, traders.display_name").
		// float comparison, sqlite does not coerce a bound decimal string here
		Having("MAX(trader_performance.account_value) > ?", filterParams.MinAccountValue.InexactFloat64()).
		Order("avg_pnl_percentage ASC").
		Order("traders.id ASC")
	if filterParams.Limit > 0 {
		query = query.Limit(filterParams.Limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return rows, err
	}
	return rows, nil
}

func (s *SQL) OpportunityExists(ctx context.Context, positionID int64) (bool, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.Opportunity{}).
		Where("position_id = ?", positionID).
		Count(&count)
	return count > 0, result.Error
}

func (s *SQL) CreateOpportunity(ctx context.Context, opportunity *model.Opportunity) (bool, error) {
	result := s.db.WithContext(ctx).Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "position_id"}}, DoNothing: true}).
		Create(opportunity)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *SQL) Opportunities(ctx context.Context, filterParams OpportunityFilterParams) ([]*model.Opportunity, error) {
	opportunities := make([]*model.Opportunity, 0)
	query := s.db.WithContext(ctx)
	if len(filterParams.Statuses) > 0 {
		query = query.Where("status IN ?", filterParams.Statuses)
	}
	if filterParams.TraderID > 0 {
		query = query.Where("trader_id = ?", filterParams.TraderID)
	}
	if filterParams.WithRelated {
		query = query.Preload("Trader").Preload("Position")
	}
	if filterParams.Limit > 0 {
		query = query.Limit(filterParams.Limit)
	}
	result := query.Order("created_at DESC").Order("id DESC").Find(&opportunities)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return opportunities, result.Error
	}
	return opportunities, nil
}

// ExpireOpportunities moves ACTIVE opportunities created before createdBefore
// to EXPIRED and returns how many rows changed.
func (s *SQL) ExpireOpportunities(ctx context.Context, createdBefore, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Opportunity{}).
		Where("status = ?", model.OpportunityStatusActive).
		Where("created_at < ?", createdBefore.UTC()).
		Updates(map[string]interface{}{
			"status":     model.OpportunityStatusExpired,
			"expired_at": now.UTC(),
		})
	return result.RowsAffected, result.Error
}

func (s *SQL) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{}
	db := s.db.WithContext(ctx)
	counts := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&stats.TotalTraders, db.Model(&model.Trader{})},
		{&stats.ActiveTraders, db.Model(&model.Trader{}).Where("is_active = ?", true)},
		{&stats.OpenPositions, db.Model(&model.Position{}).Where("status = ?", model.PositionStatusOpen)},
		{&stats.PerformanceRows, db.Model(&model.TraderPerformance{})},
		{&stats.TotalOpportunities, db.Model(&model.Opportunity{})},
		{&stats.ActiveOpportunities, db.Model(&model.Opportunity{}).Where("status = ?", model.OpportunityStatusActive)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.target).Error; err != nil {
			return stats, err
		}
	}

	latest := &model.Trader{}
	result := db.Order("last_updated DESC").Limit(1).Find(latest)
	if result.Error != nil {
		return stats, result.Error
	}
	if result.RowsAffected > 0 {
		stats.LastUpdated = &latest.LastUpdated
	}
	return stats, nil
}

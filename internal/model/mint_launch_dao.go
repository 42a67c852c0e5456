package model

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MintLaunchesDao defines the interface for database operations on the mint_launches table.
type MintLaunchesDao interface {
	Upsert(ctx context.Context, data *MintLaunches) error
	FindOneByMint(ctx context.Context, mint string) (*MintLaunches, error)
	FindByOwner(ctx context.Context, owner string) ([]*MintLaunches, error)
}

type mintLaunchesDao struct {
	db *gorm.DB
}

func NewMintLaunchesDao(db *gorm.DB) MintLaunchesDao {
	return &mintLaunchesDao{
		db: db,
	}
}

// Upsert 按 mint 地址插入或覆盖进度字段
func (d *mintLaunchesDao) Upsert(ctx context.Context, data *MintLaunches) error {
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "mint_address"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"associated_account",
			"stage",
			"status",
			"mint_signature",
			"account_signature",
			"mint_to_signature",
			"pending_signature",
			"pending_blockhash",
			"last_error",
			"updated_at",
		}),
	}).Create(data).Error
}

func (d *mintLaunchesDao) FindOneByMint(ctx context.Context, mint string) (*MintLaunches, error) {
	var resp MintLaunches
	err := d.db.WithContext(ctx).Where("mint_address = ?", mint).First(&resp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &resp, nil
}

// FindByOwner 按创建时间倒序返回某个钱包的发行记录
func (d *mintLaunchesDao) FindByOwner(ctx context.Context, owner string) ([]*MintLaunches, error) {
	var launches []*MintLaunches
	err := d.db.WithContext(ctx).Where("owner_address = ?", owner).Order("id desc").Find(&launches).Error
	if err != nil {
		return nil, err
	}
	return launches, nil
}

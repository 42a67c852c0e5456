package model

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = gorm.ErrRecordNotFound

// WalletsDao 托管钱包表的读写
type WalletsDao interface {
	Insert(ctx context.Context, data *Wallets) error
	FindOneByAddress(ctx context.Context, address string) (*Wallets, error)
}

type walletsDao struct {
	db *gorm.DB
}

func NewWalletsDao(db *gorm.DB) WalletsDao {
	return &walletsDao{
		db: db,
	}
}

func (d *walletsDao) Insert(ctx context.Context, data *Wallets) error {
	return d.db.WithContext(ctx).Create(data).Error
}

// FindOneByAddress 未找到时返回 ErrNotFound
func (d *walletsDao) FindOneByAddress(ctx context.Context, address string) (*Wallets, error) {
	var resp Wallets
	err := d.db.WithContext(ctx).Where("address = ?", address).First(&resp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &resp, nil
}

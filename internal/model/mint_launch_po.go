package model

import "time"

// MintLaunches 是一次代币发行的恢复记录，以 mint 地址为键
type MintLaunches struct {
	Id                int64     `db:"id" gorm:"primaryKey"`
	RequestId         string    `db:"request_id" gorm:"index"`
	MintAddress       string    `db:"mint_address" gorm:"uniqueIndex"`
	OwnerAddress      string    `db:"owner_address" gorm:"index"`
	AssociatedAccount string    `db:"associated_account"`
	Name              string    `db:"name"`
	Symbol            string    `db:"symbol"`
	Uri               string    `db:"uri"`
	InitialSupply     string    `db:"initial_supply"` // 使用string存储以避免精度问题
	Stage             string    `db:"stage"`
	Status            string    `db:"status"`
	MintSignature     string    `db:"mint_signature"`
	AccountSignature  string    `db:"account_signature"`
	MintToSignature   string    `db:"mint_to_signature"`
	PendingSignature  string    `db:"pending_signature"` // 已提交未确认的交易
	PendingBlockhash  string    `db:"pending_blockhash"`
	LastError         string    `db:"last_error"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

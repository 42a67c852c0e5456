package model

import (
	"database/sql"
	"time"
)

// Wallets corresponds to the wallets table in the database.
type Wallets struct {
	Id                  int64          `db:"id" gorm:"primaryKey"`
	UserId              string         `db:"user_id"`
	Name                string         `db:"name"`
	Address             string         `db:"address" gorm:"uniqueIndex"`
	EncryptedPrivateKey string         `db:"encrypted_private_key"` // ed25519 私钥 hex（64 字节）
	PhoneNumber         sql.NullString `db:"phone_number"`
	Email               sql.NullString `db:"email"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
	ChainType           sql.NullString `db:"chain_type"`
}

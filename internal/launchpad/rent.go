package launchpad

import (
	"context"
	"fmt"
)

// RentOracle 查询免租所需最低余额，没有本地兜底
type RentOracle struct {
	conn Connection
}

func NewRentOracle(conn Connection) RentOracle {
	return RentOracle{conn: conn}
}

// MinimumBalance 返回值原样作为 create-account 的 lamports
func (o RentOracle) MinimumBalance(ctx context.Context, size uint64) (uint64, error) {
	lamports, err := o.conn.GetMinimumBalanceForRentExemption(ctx, size)
	if err != nil {
		return 0, fmt.Errorf("get minimum balance for rent exemption (%d bytes): %w", size, err)
	}
	return lamports, nil
}

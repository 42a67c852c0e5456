package model

import (
	"context"
	"fmt"
	"strconv"

	"launchpad/internal/launchpad"

	"github.com/blocto/solana-go-sdk/common"
)

// LaunchRecorder 把发行快照写入 mint_launches
type LaunchRecorder struct {
	dao MintLaunchesDao
}

func NewLaunchRecorder(dao MintLaunchesDao) *LaunchRecorder {
	return &LaunchRecorder{dao: dao}
}

func (r *LaunchRecorder) Record(ctx context.Context, launch launchpad.Launch) error {
	return r.dao.Upsert(ctx, FromLaunch(launch))
}

func FromLaunch(l launchpad.Launch) *MintLaunches {
	var ata string
	if l.AssociatedAccount != (common.PublicKey{}) {
		ata = l.AssociatedAccount.ToBase58()
	}
	return &MintLaunches{
		RequestId:         l.RequestID,
		MintAddress:       l.Mint.ToBase58(),
		OwnerAddress:      l.Owner.ToBase58(),
		AssociatedAccount: ata,
		Name:              l.Name,
		Symbol:            l.Symbol,
		Uri:               l.URI,
		InitialSupply:     strconv.FormatUint(l.Supply, 10),
		Stage:             l.State.String(),
		Status:            string(l.Status),
		MintSignature:     l.Signatures[0],
		AccountSignature:  l.Signatures[1],
		MintToSignature:   l.Signatures[2],
		PendingSignature:  l.PendingSignature,
		PendingBlockhash:  l.PendingBlockhash,
		LastError:         l.LastError,
	}
}

// ToLaunch 还原为可恢复的发行快照
func (m *MintLaunches) ToLaunch() (launchpad.Launch, error) {
	supply, err := strconv.ParseUint(m.InitialSupply, 10, 64)
	if err != nil {
		return launchpad.Launch{}, fmt.Errorf("invalid initial supply %q for mint %s: %w", m.InitialSupply, m.MintAddress, err)
	}
	stage, ok := launchpad.ParseState(m.Stage)
	if !ok {
		return launchpad.Launch{}, fmt.Errorf("unknown stage %q for mint %s", m.Stage, m.MintAddress)
	}
	launch := launchpad.Launch{
		RequestID:        m.RequestId,
		Mint:             common.PublicKeyFromString(m.MintAddress),
		Owner:            common.PublicKeyFromString(m.OwnerAddress),
		Name:             m.Name,
		Symbol:           m.Symbol,
		URI:              m.Uri,
		Supply:           supply,
		State:            stage,
		Status:           launchpad.LaunchStatus(m.Status),
		Signatures:       [3]string{m.MintSignature, m.AccountSignature, m.MintToSignature},
		PendingSignature: m.PendingSignature,
		PendingBlockhash: m.PendingBlockhash,
		LastError:        m.LastError,
	}
	if m.AssociatedAccount != "" {
		launch.AssociatedAccount = common.PublicKeyFromString(m.AssociatedAccount)
	}
	return launch, nil
}

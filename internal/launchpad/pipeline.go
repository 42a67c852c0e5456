package launchpad

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
)

// Result 是一次运行的完整结果，Outcome 是唯一对外暴露的部分
type Result struct {
	Outcome PipelineOutcome
	Launch  Launch
	History []State
	Err     error
}

type Option func(*Pipeline)

func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

func WithEventSink(s EventSink) Option {
	return func(p *Pipeline) {
		p.events = s
	}
}

// WithMintGenerator 替换 mint 密钥生成
func WithMintGenerator(gen func() types.Account) Option {
	return func(p *Pipeline) {
		p.newMint = gen
	}
}

// Pipeline 依次执行 T1、T2、T3，失败即停止且不回滚
type Pipeline struct {
	conn         Connection
	rent         RentOracle
	recorder     Recorder
	events       EventSink
	newMint      func() types.Account
	newRequestID func() string
}

func NewPipeline(conn Connection, opts ...Option) *Pipeline {
	p := &Pipeline{
		conn:         conn,
		rent:         NewRentOracle(conn),
		newMint:      types.NewAccount,
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateToken 每次调用都会创建一个新的 mint，不做去重
func (p *Pipeline) CreateToken(ctx context.Context, wallet Wallet, req MintRequest) PipelineOutcome {
	return p.Run(ctx, wallet, req).Outcome
}

func (p *Pipeline) Run(ctx context.Context, wallet Wallet, req MintRequest) *Result {
	r := p.newRun(ctx, wallet, NewMachine())

	if err := r.step(StateValidating); err != nil {
		return r.finish(err)
	}
	supply, err := req.Validate()
	if err != nil {
		return r.finish(r.fail(ValidationError, err))
	}
	owner, err := r.precondition()
	if err != nil {
		return r.finish(err)
	}
	r.launch = Launch{
		RequestID: p.newRequestID(),
		Owner:     owner,
		Name:      req.Name,
		Symbol:    req.Symbol,
		URI:       req.URI,
		Supply:    supply,
		Status:    LaunchPending,
	}

	if err := r.createMint(); err != nil {
		return r.finish(err)
	}
	return r.finish(r.completeFrom(StateBuildingT2))
}

// Resume 只补做缺失的 T2/T3，从不创建新的 mint。
// 上次已提交但未确认的交易先核对链上状态，确定不会上链后才重新提交。
func (p *Pipeline) Resume(ctx context.Context, wallet Wallet, launch Launch) *Result {
	r := p.newRun(ctx, wallet, NewResumeMachine())
	r.launch = launch

	if err := r.step(StateValidating); err != nil {
		return r.finish(err)
	}
	owner, err := r.precondition()
	if err != nil {
		return r.finish(err)
	}
	if owner != launch.Owner {
		return r.finish(r.fail(PreconditionError, fmt.Errorf("wallet %s does not own launch of mint %s", owner.ToBase58(), launch.Mint.ToBase58())))
	}
	// pending 的记录可能仍在其他实例上运行
	if launch.Status != LaunchFailed {
		return r.finish(r.fail(PreconditionError, fmt.Errorf("%w: status %s", ErrNothingToResume, launch.Status)))
	}
	if !launch.MintConfirmed() && launch.PendingSignature == "" {
		return r.finish(r.fail(PreconditionError, ErrNothingToResume))
	}

	r.ctx = context.WithoutCancel(r.ctx)
	if err := r.settlePending(); err != nil {
		return r.finish(err)
	}
	if !r.launch.MintConfirmed() {
		return r.finish(r.fail(PreconditionError, fmt.Errorf("%w: mint transaction did not land", ErrNothingToResume)))
	}

	r.launch.Status = LaunchPending
	r.launch.LastError = ""
	entry := StateBuildingT2
	switch r.launch.NextStage() {
	case 2:
		entry = StateBuildingT3
	case 3:
		entry = StateSucceeded
	}
	r.Infof("恢复发行 mint=%s, 从 %s 开始", launch.Mint.ToBase58(), entry)
	if entry == StateSucceeded {
		return r.finish(r.succeed(r.launch.Signatures[2]))
	}
	return r.finish(r.completeFrom(entry))
}

type run struct {
	logx.Logger
	ctx     context.Context
	p       *Pipeline
	wallet  Wallet
	machine *Machine
	launch  Launch
}

func (p *Pipeline) newRun(ctx context.Context, wallet Wallet, m *Machine) *run {
	return &run{
		Logger:  logx.WithContext(ctx),
		ctx:     ctx,
		p:       p,
		wallet:  wallet,
		machine: m,
	}
}

func (r *run) step(to State) error {
	if err := r.machine.Transition(to); err != nil {
		return err
	}
	if to != StateValidating && to != StateFailed {
		r.launch.State = to
	}
	return nil
}

func (r *run) precondition() (common.PublicKey, error) {
	if r.wallet == nil {
		return common.PublicKey{}, r.fail(PreconditionError, ErrWalletNotConnected)
	}
	owner, ok := r.wallet.PublicKey()
	if !ok {
		return common.PublicKey{}, r.fail(PreconditionError, ErrWalletNotConnected)
	}
	if !r.wallet.CanSign() {
		return common.PublicKey{}, r.fail(PreconditionError, ErrWalletCannotSign)
	}
	return owner, nil
}

// createMint 构建并提交 T1
func (r *run) createMint() error {
	if err := r.step(StateBuildingT1); err != nil {
		return err
	}

	// mint 密钥只属于本次运行，T1 提交后清除
	mint := r.p.newMint()
	defer clear(mint.PrivateKey)
	r.launch.Mint = mint.PublicKey

	meta := TokenMetadata{
		UpdateAuthority:    r.launch.Owner,
		Mint:               mint.PublicKey,
		Name:               r.launch.Name,
		Symbol:             r.launch.Symbol,
		URI:                r.launch.URI,
		AdditionalMetadata: []MetadataField{},
	}
	layout, err := CalculateLayout(meta)
	if err != nil {
		return r.fail(InternalError, err)
	}
	r.Infof("步骤 1: 计算账户空间 mintLen=%d, metadataLen=%d", layout.MintLen, layout.MetadataLen)

	lamports, err := r.p.rent.MinimumBalance(r.ctx, layout.Total())
	if err != nil {
		return r.fail(NetworkError, err)
	}
	r.Infof("步骤 2: 免租余额 %d lamports (%d bytes)", lamports, layout.Total())

	blockhash, err := r.latestBlockhash()
	if err != nil {
		return err
	}
	unit, err := BuildMintTransaction(MintTransactionParam{
		Wallet:          r.launch.Owner,
		Mint:            mint,
		Metadata:        meta,
		Layout:          layout,
		Lamports:        lamports,
		RecentBlockhash: blockhash,
	})
	if err != nil {
		return r.fail(InternalError, err)
	}

	if err := r.step(StateSubmittingT1); err != nil {
		return err
	}
	// 开始提交后不再响应取消，运行到成功或失败
	r.ctx = context.WithoutCancel(r.ctx)
	r.record()

	sig, err := r.submit(unit)
	if err != nil {
		return err
	}
	r.launch.Signatures[0] = sig
	r.Infof("步骤 3: mint 账户创建成功 mint=%s, tx=%s", mint.PublicKey.ToBase58(), sig)
	r.record()
	r.emit(EventMintCreated, sig, 0)
	return nil
}

// completeFrom 执行 T2（如需要）和 T3
func (r *run) completeFrom(entry State) error {
	r.ctx = context.WithoutCancel(r.ctx)
	owner, mint := r.launch.Owner, r.launch.Mint

	if entry == StateBuildingT2 {
		if err := r.step(StateBuildingT2); err != nil {
			return err
		}
		blockhash, err := r.latestBlockhash()
		if err != nil {
			return err
		}
		unit, ata, err := BuildAssociatedAccountTransaction(owner, mint, blockhash)
		if err != nil {
			return r.fail(InternalError, err)
		}
		r.launch.AssociatedAccount = ata

		if err := r.step(StateSubmittingT2); err != nil {
			return err
		}
		sig, err := r.submit(unit)
		if err != nil {
			return err
		}
		r.launch.Signatures[1] = sig
		r.Infof("步骤 4: 关联账户创建成功 ata=%s, tx=%s", ata.ToBase58(), sig)
		r.record()
		r.emit(EventAccountCreated, sig, 0)
	}

	if err := r.step(StateBuildingT3); err != nil {
		return err
	}
	ata, err := AssociatedTokenAddress(owner, mint)
	if err != nil {
		return r.fail(InternalError, err)
	}
	r.launch.AssociatedAccount = ata
	blockhash, err := r.latestBlockhash()
	if err != nil {
		return err
	}
	unit, err := BuildMintToTransaction(owner, mint, ata, r.launch.Supply, blockhash)
	if err != nil {
		return r.fail(InternalError, err)
	}

	if err := r.step(StateSubmittingT3); err != nil {
		return err
	}
	sig, err := r.submit(unit)
	if err != nil {
		return err
	}
	r.launch.Signatures[2] = sig
	r.Infof("步骤 5: 铸造 %d 枚成功, tx=%s", r.launch.Supply, sig)
	return r.succeed(sig)
}

func (r *run) succeed(sig string) error {
	if err := r.step(StateSucceeded); err != nil {
		return err
	}
	r.launch.Status = LaunchSucceeded
	r.record()
	r.emit(EventSupplyMinted, sig, r.launch.Supply)
	return nil
}

// settlePending 核对上次已提交但未确认的交易。已上链时补记签名；
// 确定不会上链时清除；仍可能上链时失败返回，不重新提交。
func (r *run) settlePending() error {
	sig := r.launch.PendingSignature
	if sig == "" {
		return nil
	}
	idx := r.launch.NextStage()

	// 先查 blockhash 再查签名：blockhash 已过期且查不到签名，交易就不会再上链
	valid := true
	if r.launch.PendingBlockhash != "" {
		v, err := r.p.conn.IsBlockhashValid(r.ctx, r.launch.PendingBlockhash)
		if err != nil {
			return r.fail(NetworkError, fmt.Errorf("check blockhash of %s: %w", sig, err))
		}
		valid = v
	}
	status, err := r.p.conn.SignatureStatus(r.ctx, sig)
	if err != nil {
		return r.fail(NetworkError, err)
	}
	r.Infof("上次未确认的交易 tx=%s, 状态: %s, blockhash 有效: %v", sig, status, valid)

	switch status {
	case TxConfirmed:
	case TxProcessing:
		if err := r.p.conn.ConfirmTransaction(r.ctx, sig); err != nil {
			return r.fail(NetworkError, fmt.Errorf("confirm pending %s: %w", sig, err))
		}
	case TxNotFound:
		if valid {
			return r.fail(NetworkError, fmt.Errorf("%w: %s", ErrPendingUnsettled, sig))
		}
		r.dropPending()
		return nil
	default:
		r.dropPending()
		return nil
	}

	r.launch.Signatures[idx] = sig
	r.launch.PendingSignature, r.launch.PendingBlockhash = "", ""
	r.record()
	if idx < len(stageEvents)-1 {
		r.emit(stageEvents[idx], sig, 0)
	}
	return nil
}

func (r *run) dropPending() {
	r.Infof("上次提交的交易不会上链, tx=%s", r.launch.PendingSignature)
	r.launch.PendingSignature, r.launch.PendingBlockhash = "", ""
	r.record()
}

func (r *run) latestBlockhash() (string, error) {
	blockhash, err := r.p.conn.GetLatestBlockhash(r.ctx)
	if err != nil {
		return "", r.fail(NetworkError, fmt.Errorf("get latest blockhash: %w", err))
	}
	return blockhash, nil
}

// submit 签名、提交并等待确认，不重试
func (r *run) submit(unit TransactionUnit) (string, error) {
	tx, err := unit.Compile()
	if err != nil {
		return "", r.fail(InternalError, err)
	}
	sig, err := r.wallet.SendTransaction(r.ctx, tx, r.p.conn)
	if err != nil {
		return "", r.fail(NetworkError, fmt.Errorf("send %s: %w", unit.Label, err))
	}
	// 确认失败时交易仍可能上链，签名保留在恢复记录中
	r.launch.PendingSignature, r.launch.PendingBlockhash = sig, unit.RecentBlockhash
	r.Infof("%s 已提交, tx=%s, 等待确认...", unit.Label, sig)
	if err := r.p.conn.ConfirmTransaction(r.ctx, sig); err != nil {
		return "", r.fail(NetworkError, fmt.Errorf("confirm %s: %w", unit.Label, err))
	}
	r.launch.PendingSignature, r.launch.PendingBlockhash = "", ""
	return sig, nil
}

// fail 进入 Failed。已有交易上链时归为部分完成，已上链部分不回滚。
func (r *run) fail(kind ErrorKind, err error) error {
	var inner *PipelineError
	if errors.As(err, &inner) {
		kind, err = inner.Kind, inner.Err
	}
	stage := r.machine.State()
	if (kind == NetworkError || kind == InternalError) && r.launch.MintConfirmed() {
		kind = PartialCompletionError
	}
	pe := &PipelineError{Kind: kind, Stage: stage, Err: err}
	if terr := r.machine.Transition(StateFailed); terr != nil {
		r.Errorf("状态机拒绝进入 failed: %v", terr)
	}
	r.Errorf("发行失败 [%s] at %s: %v", kind, stage, err)

	// 只有生成 mint 之后的失败才更新恢复记录
	if r.launch.Mint != (common.PublicKey{}) && kind != ValidationError && kind != PreconditionError {
		r.launch.Status = LaunchFailed
		r.launch.LastError = err.Error()
		r.record()
		r.emit(EventLaunchFailed, "", 0)
	}
	return pe
}

func (r *run) finish(err error) *Result {
	res := &Result{
		Launch:  r.launch,
		History: r.machine.History(),
		Err:     err,
	}
	if err == nil {
		res.Outcome = PipelineOutcome{
			Success: true,
			Message: fmt.Sprintf("%s: %s", MessageSucceeded, r.launch.Mint.ToBase58()),
		}
		return res
	}

	var pe *PipelineError
	if !errors.As(err, &pe) {
		// 状态机非法转换等内部错误
		res.Err = r.fail(InternalError, err)
	}
	// 除输入校验外，所有失败对调用方都是同一条提示，细节只在日志里
	if KindOf(res.Err) == ValidationError {
		res.Outcome = PipelineOutcome{Message: MessageInvalidInput}
	} else {
		res.Outcome = PipelineOutcome{Message: MessageFailed}
	}
	res.History = r.machine.History()
	res.Launch = r.launch
	return res
}

func (r *run) record() {
	if r.p.recorder == nil {
		return
	}
	if err := r.p.recorder.Record(r.ctx, r.launch); err != nil {
		r.Errorf("保存发行记录失败 mint=%s: %v", r.launch.Mint.ToBase58(), err)
	}
}

func (r *run) emit(typ, sig string, amount uint64) {
	if r.p.events == nil {
		return
	}
	r.p.events.Emit(r.ctx, Event{
		Type:      typ,
		RequestID: r.launch.RequestID,
		Mint:      r.launch.Mint.ToBase58(),
		Owner:     r.launch.Owner.ToBase58(),
		Signature: sig,
		Amount:    amount,
		State:     r.launch.State,
		Error:     r.launch.LastError,
	})
}

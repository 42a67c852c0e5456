package launchpad

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MessageSucceeded    = "Token created and minted successfully"
	MessageInvalidInput = "Please fill all fields with valid data."
	MessageFailed       = "Failed to create token. Check logs for details."
	MessageInFlight     = "A token launch for this wallet is already in progress."
)

// MintRequest 是一次发行的输入
type MintRequest struct {
	Name          string
	Symbol        string
	URI           string
	InitialSupply string
}

// Validate 在任何网络调用之前执行，返回解析后的供应量
func (r MintRequest) Validate() (uint64, error) {
	fields := []struct{ name, value string }{
		{"name", r.Name},
		{"symbol", r.Symbol},
		{"uri", r.URI},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return 0, &PipelineError{Kind: ValidationError, Stage: StateValidating, Err: fmt.Errorf("%s: %w", f.name, ErrEmptyField)}
		}
	}
	supply, err := ParseSupply(r.InitialSupply)
	if err != nil {
		return 0, &PipelineError{Kind: ValidationError, Stage: StateValidating, Err: err}
	}
	return supply, nil
}

// ParseSupply 只接受十进制非负整数，decimals 为 0 不做缩放
func ParseSupply(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidSupply
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSupply, s)
	}
	return v, nil
}

// PipelineOutcome 是调用方唯一可见的结果
type PipelineOutcome struct {
	Success bool
	Message string
}

package launchpad

import "fmt"

type State int

const (
	StateIdle State = iota
	StateValidating
	StateBuildingT1
	StateSubmittingT1
	StateBuildingT2
	StateSubmittingT2
	StateBuildingT3
	StateSubmittingT3
	StateSucceeded
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:         "idle",
	StateValidating:   "validating",
	StateBuildingT1:   "building_t1",
	StateSubmittingT1: "submitting_t1",
	StateBuildingT2:   "building_t2",
	StateSubmittingT2: "submitting_t2",
	StateBuildingT3:   "building_t3",
	StateSubmittingT3: "submitting_t3",
	StateSucceeded:    "succeeded",
	StateFailed:       "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseState 用于从恢复记录中还原
func ParseState(name string) (State, bool) {
	for s, n := range stateNames {
		if n == name {
			return s, true
		}
	}
	return StateIdle, false
}

func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// 正常流程的后继状态；Validating 之后的任何状态都可以进入 Failed
var forward = map[State]State{
	StateIdle:         StateValidating,
	StateValidating:   StateBuildingT1,
	StateBuildingT1:   StateSubmittingT1,
	StateSubmittingT1: StateBuildingT2,
	StateBuildingT2:   StateSubmittingT2,
	StateSubmittingT2: StateBuildingT3,
	StateBuildingT3:   StateSubmittingT3,
	StateSubmittingT3: StateSucceeded,
}

// resumeEntries 恢复运行时 Validating 可以直接跳到的状态。
// 上次未确认的 T3 实际已上链时直接进入 Succeeded。
var resumeEntries = map[State]bool{
	StateBuildingT2: true,
	StateBuildingT3: true,
	StateSucceeded:  true,
}

// Machine 是单次运行的状态机，状态不会重入
type Machine struct {
	state   State
	resume  bool
	history []State
}

func NewMachine() *Machine {
	return &Machine{state: StateIdle, history: []State{StateIdle}}
}

// NewResumeMachine 允许 Validating 直接进入 T2/T3 构建或 Succeeded
func NewResumeMachine() *Machine {
	m := NewMachine()
	m.resume = true
	return m
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) History() []State {
	out := make([]State, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Machine) Transition(to State) error {
	if !m.allowed(to) {
		return fmt.Errorf("illegal transition %s -> %s", m.state, to)
	}
	m.state = to
	m.history = append(m.history, to)
	return nil
}

func (m *Machine) allowed(to State) bool {
	if m.state.Terminal() {
		return false
	}
	if to == StateFailed {
		return m.state != StateIdle
	}
	if next, ok := forward[m.state]; ok && next == to {
		return true
	}
	return m.resume && m.state == StateValidating && resumeEntries[to]
}

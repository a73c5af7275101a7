// Package scenario replays scripted canvas edits from YAML files.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"stackcanvas/internal/domain"
)

// Op names a scenario step.
type Op string

const (
	OpAdd        Op = "add"
	OpAddBlock   Op = "add_block"
	OpMove       Op = "move"
	OpDelete     Op = "delete"
	OpConnect    Op = "connect"
	OpDisconnect Op = "disconnect"
	OpSelect     Op = "select"
	OpUndo       Op = "undo"
	OpRedo       Op = "redo"
	OpClear      Op = "clear"
	OpWait       Op = "wait"
	OpKey        Op = "key"
)

var ErrUnknownOp = errors.New("unknown op")

// Scenario is a starting canvas and the steps applied to it.
type Scenario struct {
	Name    string
	Initial domain.CanvasState
	Steps   []Step
}

// Step is one scripted action. Which fields matter depends on Op.
type Step struct {
	Op       Op              `mapstructure:"op"`
	Type     string          `mapstructure:"type"`
	ID       string          `mapstructure:"id"`
	At       domain.Position `mapstructure:"at"`
	To       domain.Position `mapstructure:"to"`
	Block    domain.Block    `mapstructure:"block"`
	Source   domain.Endpoint `mapstructure:"source"`
	Target   domain.Endpoint `mapstructure:"target"`
	Selected *bool           `mapstructure:"selected"`
	Duration time.Duration   `mapstructure:"duration"`
	Chord    string          `mapstructure:"chord"`
}

type file struct {
	Name    string             `yaml:"name"`
	Initial domain.CanvasState `yaml:"initial"`
	Steps   []map[string]any   `yaml:"steps"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes scenario YAML. Steps are decoded individually so that
// duration strings such as "600ms" are accepted.
func Parse(data []byte) (*Scenario, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	scn := &Scenario{Name: f.Name, Initial: f.Initial, Steps: make([]Step, 0, len(f.Steps))}
	for i, raw := range f.Steps {
		step, err := decodeStep(raw)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		scn.Steps = append(scn.Steps, step)
	}
	return scn, nil
}

func decodeStep(raw map[string]any) (Step, error) {
	var step Step
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &step,
	})
	if err != nil {
		return Step{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Step{}, fmt.Errorf("decode: %w", err)
	}
	if err := step.validate(); err != nil {
		return Step{}, err
	}
	return step, nil
}

func (s Step) validate() error {
	switch s.Op {
	case OpAdd:
		if s.Type == "" {
			return fmt.Errorf("%s: type is required", s.Op)
		}
	case OpMove, OpDelete, OpDisconnect, OpSelect:
		if s.ID == "" {
			return fmt.Errorf("%s: id is required", s.Op)
		}
	case OpConnect:
		if s.Source.BlockID == "" || s.Target.BlockID == "" {
			return fmt.Errorf("%s: source and target are required", s.Op)
		}
	case OpWait:
		if s.Duration <= 0 {
			return fmt.Errorf("%s: duration must be positive", s.Op)
		}
	case OpKey:
		if s.Chord == "" {
			return fmt.Errorf("%s: chord is required", s.Op)
		}
	case OpAddBlock, OpUndo, OpRedo, OpClear:
	default:
		return fmt.Errorf("%q: %w", s.Op, ErrUnknownOp)
	}
	return nil
}

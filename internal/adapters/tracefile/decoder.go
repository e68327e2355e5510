// Package tracefile decodes pipeline runs recorded by external hosts.
//
// A trace is YAML (or JSON) of the form:
//
//	tracking: true
//	groups:
//	  - name: main
//	    steps:
//	      - step: ParseInputs
//	        reason: Cached
//	        outputs:
//	          - key: ParseInputs
//	            value: {$type: "*host.SemanticModel", $id: "7"}
//	    artifacts:
//	      - {name: Parsed.g.cs, content: "..."}
//
// Records are listed in execution order. Mappings tagged with "$type" become
// typed objects; YAML aliases resolve to the anchored object, preserving identity.
package tracefile

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	typeKey = "$type"
	idKey   = "$id"
)

var _ ports.TraceDecoder = (*Decoder)(nil)

type traceDTO struct {
	ID       string     `yaml:"id"`
	Tracking *bool      `yaml:"tracking"`
	Groups   []groupDTO `yaml:"groups"`
}

type groupDTO struct {
	Name        string          `yaml:"name"`
	Steps       []recordDTO     `yaml:"steps"`
	Artifacts   []artifactDTO   `yaml:"artifacts"`
	Diagnostics []diagnosticDTO `yaml:"diagnostics"`
}

type recordDTO struct {
	Step      string      `yaml:"step"`
	Reason    string      `yaml:"reason"`
	ElapsedMs int64       `yaml:"elapsedMs"`
	Inputs    []inputDTO  `yaml:"inputs"`
	Outputs   []outputDTO `yaml:"outputs"`
}

type inputDTO struct {
	Step string `yaml:"step"`
	Key  string `yaml:"key"`
}

type outputDTO struct {
	Key   string    `yaml:"key"`
	Value yaml.Node `yaml:"value"`
}

type artifactDTO struct {
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
}

type diagnosticDTO struct {
	Step     string `yaml:"step"`
	Severity string `yaml:"severity"`
	Message  string `yaml:"message"`
}

// Decoder reads trace files.
type Decoder struct{}

// NewDecoder creates a new Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode reads the trace file at path.
func (d *Decoder) Decode(path string) (*domain.RunResult, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read trace file"), "path", path)
	}
	run, err := d.Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return run, nil
}

// Parse decodes a trace from data.
func (d *Decoder) Parse(data []byte) (*domain.RunResult, error) {
	var dto traceDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.Wrap(err, "failed to parse trace")
	}

	run := &domain.RunResult{ID: dto.ID, Tracking: true}
	if dto.Tracking != nil {
		run.Tracking = *dto.Tracking
	}

	conv := &converter{anchors: make(map[string]any)}
	for _, g := range dto.Groups {
		group, err := conv.group(g)
		if err != nil {
			return nil, zerr.With(err, "group", g.Name)
		}
		run.Groups = append(run.Groups, group)
	}
	return run, nil
}

// converter turns decoded nodes into values. Anchors are shared across the
// whole document, so an alias in any record yields the anchored instance.
type converter struct {
	anchors map[string]any
}

func (c *converter) group(g groupDTO) (domain.OutputGroup, error) {
	group := domain.OutputGroup{Name: g.Name}
	if len(g.Steps) > 0 {
		group.Steps = make(map[string][]domain.StepRecord)
	}

	for _, r := range g.Steps {
		rec, err := c.record(r)
		if err != nil {
			return domain.OutputGroup{}, zerr.With(err, "step", r.Step)
		}
		if _, ok := group.Steps[r.Step]; !ok {
			group.StepOrder = append(group.StepOrder, r.Step)
		}
		group.Steps[r.Step] = append(group.Steps[r.Step], rec)
	}

	for _, a := range g.Artifacts {
		group.Artifacts = append(group.Artifacts, domain.Artifact{Name: a.Name, Content: a.Content})
	}
	for _, diag := range g.Diagnostics {
		severity := domain.Severity(diag.Severity)
		if severity == "" {
			severity = domain.SeverityInfo
		}
		group.Diagnostics = append(group.Diagnostics, domain.Diagnostic{
			Step:     diag.Step,
			Severity: severity,
			Message:  diag.Message,
		})
	}
	return group, nil
}

func (c *converter) record(r recordDTO) (domain.StepRecord, error) {
	if r.Step == "" {
		return domain.StepRecord{}, zerr.New("record has no step name")
	}
	reason, err := domain.ParseReuseReason(r.Reason)
	if err != nil {
		return domain.StepRecord{}, err
	}

	rec := domain.StepRecord{
		Step:    domain.NewInternedString(r.Step),
		Reason:  reason,
		Elapsed: time.Duration(r.ElapsedMs) * time.Millisecond,
	}
	for _, in := range r.Inputs {
		rec.Inputs = append(rec.Inputs, domain.StepInput{Step: domain.NewInternedString(in.Step), Key: in.Key})
	}
	for _, out := range r.Outputs {
		value, err := c.value(&out.Value)
		if err != nil {
			return domain.StepRecord{}, zerr.With(err, "output", out.Key)
		}
		rec.Outputs = append(rec.Outputs, domain.StepOutput{Key: out.Key, Value: value})
	}
	return rec, nil
}

func (c *converter) value(n *yaml.Node) (any, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind == yaml.AliasNode {
		if v, ok := c.anchors[n.Value]; ok {
			return v, nil
		}
		// Anchored outside a step value, e.g. on a whole record.
		if n.Alias != nil {
			return c.value(n.Alias)
		}
		return nil, zerr.With(zerr.New("unknown anchor"), "anchor", n.Value)
	}

	switch n.Kind {
	case yaml.MappingNode:
		return c.mapping(n)
	case yaml.SequenceNode:
		obj := &Object{typeName: ArrayType}
		c.remember(n, obj)
		for i, item := range n.Content {
			v, err := c.value(item)
			if err != nil {
				return nil, err
			}
			obj.children = append(obj.children, domain.Child{Label: fmt.Sprintf("[%d]", i), Value: v})
		}
		return obj, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to decode scalar"), "line", strconv.Itoa(n.Line))
		}
		c.remember(n, v)
		return v, nil
	default:
		return nil, zerr.With(zerr.New("unsupported node"), "line", strconv.Itoa(n.Line))
	}
}

func (c *converter) mapping(n *yaml.Node) (any, error) {
	obj := &Object{typeName: ObjectType}
	c.remember(n, obj)

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case typeKey:
			obj.typeName = val.Value
			continue
		case idKey:
			obj.id = val.Value
			continue
		}
		v, err := c.value(val)
		if err != nil {
			return nil, err
		}
		obj.children = append(obj.children, domain.Child{Label: key.Value, Value: v})
	}
	return obj, nil
}

func (c *converter) remember(n *yaml.Node, v any) {
	if n.Anchor != "" {
		c.anchors[n.Anchor] = v
	}
}

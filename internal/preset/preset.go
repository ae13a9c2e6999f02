// Package preset loads the literal YAML graph description cmd/render
// demonstrates: a fixed document of make_synth/connect/add_event calls,
// not a general-purpose script language.
package preset

import (
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BigFatSpider/json2wav/blep"
	"github.com/BigFatSpider/json2wav/control"
	"github.com/BigFatSpider/json2wav/graph"
	"github.com/BigFatSpider/json2wav/infinisaw"
	"github.com/BigFatSpider/json2wav/ramp"
	"github.com/BigFatSpider/json2wav/render"
	"github.com/BigFatSpider/json2wav/synth"
)

/*------------------------------------------------------------------
 *
 * Purpose:	A Preset names synths and effects by id, wires them into
 *		a single Composite root plus a linear effect chain, and
 *		schedules events against those ids: make_synth, connect,
 *		add_event, and a final render call's arguments, read from
 *		one YAML document instead of a script.
 *
 *----------------------------------------------------------------*/

// Jump is one YAML-declared InfiniSaw discontinuity.
type Jump struct {
	Pos float64 `yaml:"pos"`
	Amp float32 `yaml:"amp"`
}

// Synth is one make_synth call: kind is "InfiniSaw" or "Noise".
type Synth struct {
	ID        string  `yaml:"id"`
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Phase     float64 `yaml:"phase"`
	Precision string  `yaml:"precision"`
	Seed      uint64  `yaml:"seed"`
	Jumps     []Jump  `yaml:"jumps"`
}

// Effect is one make_effect call, applied in document order onto the
// running composite's current tail. Only "Panner" is supported here;
// AudioSum is implicit (the composite's own summing head).
type Effect struct {
	ID   string  `yaml:"id"`
	Kind string  `yaml:"kind"`
	Pan  float64 `yaml:"pan"`
}

// Event is one add_event call, targeting a synth or effect by id.
type Event struct {
	Target          string  `yaml:"target"`
	Param           string  `yaml:"param"`
	TargetSample    uint64  `yaml:"target_sample"`
	Value           float64 `yaml:"value"`
	DurationSamples uint64  `yaml:"duration_samples"`
	Shape           string  `yaml:"shape"`
}

// Preset is the full document: graph construction plus the final
// render(root, total_samples, sample_rate, pcm_format) call's arguments.
type Preset struct {
	SampleRate   uint32   `yaml:"sample_rate"`
	Format       string   `yaml:"format"`
	Channels     int      `yaml:"channels"`
	TotalSamples int      `yaml:"total_samples"`
	Synths       []Synth  `yaml:"synths"`
	Effects      []Effect `yaml:"effects"`
	Events       []Event  `yaml:"events"`
}

// Load reads and decodes a Preset from a YAML file.
func Load(path string) (*Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: reading %s: %w", path, err)
	}
	var p Preset
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("preset: parsing %s: %w", path, err)
	}
	return &p, nil
}

// eventTarget is satisfied by every node kind add_event can schedule
// against: synth.Base (embedded by Noise and InfiniSaw) and
// synth.Panner each expose this same shape.
type eventTarget interface {
	AddEvent(targetSample uint64, param control.ParamID, targetValue float64, durationSamples uint64, shape ramp.Shape) error
}

// Build realizes a Preset into a graph.Node ready for render.New, and
// reports the render format it resolved to.
func Build(p *Preset) (graph.Node, render.Format, error) {
	format, err := parseFormat(p.Format)
	if err != nil {
		return nil, 0, err
	}

	channels := p.Channels
	if channels <= 0 {
		channels = 1
	}

	composite := synth.NewComposite(0)
	targets := make(map[string]eventTarget, len(p.Synths)+len(p.Effects))
	hardSyncTargets := make(map[string]*infinisaw.InfiniSaw, len(p.Synths))

	for _, s := range p.Synths {
		node, err := buildSynth(s)
		if err != nil {
			return nil, 0, err
		}
		if err := composite.AddSynth(node); err != nil {
			return nil, 0, fmt.Errorf("preset: connecting synth %q: %w", s.ID, err)
		}
		if et, ok := node.(eventTarget); ok {
			targets[s.ID] = et
		}
		if is, ok := node.(*infinisaw.InfiniSaw); ok {
			hardSyncTargets[s.ID] = is
		}
	}

	tail := composite.Tail()
	for _, e := range p.Effects {
		switch e.Kind {
		case "Panner":
			pn := synth.NewPanner(tail, e.Pan)
			if err := composite.AddEffect(pn); err != nil {
				return nil, 0, fmt.Errorf("preset: connecting effect %q: %w", e.ID, err)
			}
			targets[e.ID] = pn
			tail = pn
		default:
			return nil, 0, fmt.Errorf("preset: unrecognized effect kind %q", e.Kind)
		}
	}

	for _, ev := range p.Events {
		if err := applyEvent(ev, targets, hardSyncTargets); err != nil {
			return nil, 0, err
		}
	}

	return composite, format, nil
}

func buildSynth(s Synth) (graph.Node, error) {
	switch s.Kind {
	case "InfiniSaw":
		precision, err := parsePrecision(s.Precision)
		if err != nil {
			return nil, fmt.Errorf("preset: synth %q: %w", s.ID, err)
		}
		node := infinisaw.NewInfiniSaw(s.Amplitude, s.Frequency, precision)
		node.SetPhase(s.Phase)
		jumps := make([]infinisaw.Jump, len(s.Jumps))
		for i, j := range s.Jumps {
			jumps[i] = infinisaw.Jump{Pos: j.Pos, Amp: j.Amp}
		}
		node.SetJumps(jumps)
		return node, nil
	case "Noise":
		seed := s.Seed
		if seed == 0 {
			seed = 1
		}
		return synth.NewNoise(s.Amplitude, &pcgSource{rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}), nil
	default:
		return nil, fmt.Errorf("preset: unrecognized synth kind %q", s.Kind)
	}
}

func applyEvent(ev Event, targets map[string]eventTarget, hardSync map[string]*infinisaw.InfiniSaw) error {
	shape, err := parseShape(ev.Shape)
	if err != nil {
		return err
	}

	if ev.Param == "hard_sync" {
		is, ok := hardSync[ev.Target]
		if !ok {
			return fmt.Errorf("preset: event target %q is not an InfiniSaw synth", ev.Target)
		}
		return is.HardSync(ev.TargetSample)
	}

	t, ok := targets[ev.Target]
	if !ok {
		return fmt.Errorf("preset: event target %q not found", ev.Target)
	}
	param, err := parseParam(ev.Param)
	if err != nil {
		return err
	}
	return t.AddEvent(ev.TargetSample, param, ev.Value, ev.DurationSamples, shape)
}

func parseParam(name string) (control.ParamID, error) {
	switch name {
	case "amplitude":
		return synth.ParamAmplitude, nil
	case "frequency":
		return synth.ParamFrequency, nil
	case "pan":
		return synth.ParamPan, nil
	default:
		return 0, fmt.Errorf("preset: unrecognized param %q", name)
	}
}

func parseShape(name string) (ramp.Shape, error) {
	switch name {
	case "", "instant":
		return ramp.Instant, nil
	case "linear":
		return ramp.Linear, nil
	case "scurve":
		return ramp.SCurve, nil
	case "log_linear":
		return ramp.LogScaleLinear, nil
	case "log_scurve":
		return ramp.LogScaleSCurve, nil
	default:
		return 0, fmt.Errorf("preset: unrecognized ramp shape %q", name)
	}
}

func parseFormat(name string) (render.Format, error) {
	switch name {
	case "", "int16":
		return render.Int16, nil
	case "int24":
		return render.Int24, nil
	case "float32":
		return render.Float32, nil
	default:
		return 0, fmt.Errorf("preset: unrecognized PCM format %q", name)
	}
}

func parsePrecision(name string) (blep.Precision, error) {
	switch name {
	case "", "Precise":
		return blep.Precise, nil
	case "MonotonicPrecise":
		return blep.MonotonicPrecise, nil
	case "RipplePrecise":
		return blep.RipplePrecise, nil
	case "HalfRipplePrecise":
		return blep.HalfRipplePrecise, nil
	case "Fast":
		return blep.Fast, nil
	case "MonotonicFast":
		return blep.MonotonicFast, nil
	case "RippleFast":
		return blep.RippleFast, nil
	case "HalfRippleFast":
		return blep.HalfRippleFast, nil
	case "ExtraFast":
		return blep.ExtraFast, nil
	case "MonotonicExtraFast":
		return blep.MonotonicExtraFast, nil
	case "RippleExtraFast":
		return blep.RippleExtraFast, nil
	case "HalfRippleExtraFast":
		return blep.HalfRippleExtraFast, nil
	default:
		return 0, fmt.Errorf("preset: unrecognized BLEP precision %q", name)
	}
}

// pcgSource adapts math/rand/v2's PCG generator to synth.Source, scaling
// its uniform [0,1) float to [-1,1).
type pcgSource struct {
	rng *rand.Rand
}

func (p *pcgSource) Next() float64 {
	return p.rng.Float64()*2 - 1
}

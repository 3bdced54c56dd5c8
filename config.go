package posepaint

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"reflect"
	"sort"
	"strings"
)

// Firework styles used by ModeFireworks.
const (
	FireworkStyleGesture = "gesture"
	FireworkStyleAmbient = "ambient"
)

// Config is the user-facing session configuration. It round-trips through
// JSON; zero or out-of-range values are replaced by defaults in Normalize.
type Config struct {
	Mode  string `json:"mode"`
	Color string `json:"color"`
	// Size is the keypoint diameter in pixels.
	Size float64 `json:"size"`
	// Opacity is in percent, 0 to 100.
	Opacity       float64 `json:"opacity"`
	MinConfidence float64 `json:"min_confidence"`
	// FireworkOverlay draws gesture fireworks on top of every mode.
	FireworkOverlay bool `json:"firework_overlay"`
	TrailLength     int  `json:"trail_length"`
	// Fade is the per-frame veil alpha of an ImageCanvas; 0 clears each frame.
	Fade float64 `json:"fade"`
	// Seed fixes the random source; 0 seeds from the runtime.
	Seed uint64 `json:"seed"`

	Smoke     SmokeSettings    `json:"smoke"`
	Particles ParticleSettings `json:"particles"`
	Fireworks FireworkSettings `json:"fireworks"`
	Circles   CircleSettings   `json:"circles"`
}

// SmokeSettings are the JSON-tunable smoke plume values.
type SmokeSettings struct {
	EmitRate     float64 `json:"emit_rate"`
	MaxParticles int     `json:"max_particles"`
	Size         float64 `json:"size"`
	MaxSizeMult  float64 `json:"max_size_mult"`
	WindGain     float64 `json:"wind_gain"`
	MaxWind      float64 `json:"max_wind"`
}

// ParticleSettings are the JSON-tunable noise paint values.
type ParticleSettings struct {
	// Keypoints lists landmark names, or the single entry "all".
	Keypoints     []string `json:"keypoints"`
	Count         int      `json:"count"`
	Size          float64  `json:"size"`
	NoiseStrength float64  `json:"noise_strength"`
	BurstCount    int      `json:"burst_count"`
	Limbs         *bool    `json:"limbs,omitempty"`
}

// FireworkSettings are the JSON-tunable firework values.
type FireworkSettings struct {
	// Style is "gesture" or "ambient" and applies to ModeFireworks.
	Style           string  `json:"style"`
	SparksPerBurst  int     `json:"sparks_per_burst"`
	Interval        float64 `json:"interval"`
	MovementTrigger float64 `json:"movement_trigger"`
	Cooldown        float64 `json:"cooldown"`
	Sustain         float64 `json:"sustain"`
}

// CircleSettings are the JSON-tunable glow circle values.
type CircleSettings struct {
	Amplitude  float64 `json:"amplitude"`
	Frequency  float64 `json:"frequency"`
	GrowthRate float64 `json:"growth_rate"`
	MaxGrowth  float64 `json:"max_growth"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	smoke := DefaultSmokeConfig()
	paint := DefaultPaintConfig()
	fw := DefaultFireworkConfig()
	gesture := DefaultGestureFireworkConfig()
	vis := DefaultVisualizerConfig()
	return Config{
		Mode:          ModeKeypoints.String(),
		Color:         "#ffffff",
		Size:          10,
		Opacity:       100,
		MinConfidence: DefaultMinConfidence,
		TrailLength:   DefaultTrailLength,
		Smoke: SmokeSettings{
			EmitRate:     smoke.EmitRate,
			MaxParticles: smoke.MaxParticles,
			Size:         smoke.Size,
			MaxSizeMult:  smoke.MaxSizeMult,
			WindGain:     smoke.WindGain,
			MaxWind:      smoke.MaxWind,
		},
		Particles: ParticleSettings{
			Keypoints:     []string{"nose", "left_wrist", "right_wrist"},
			Count:         paint.ParticleCount,
			Size:          paint.ParticleSize,
			NoiseStrength: paint.NoiseStrength,
			BurstCount:    paint.Burst.Count,
		},
		Fireworks: FireworkSettings{
			Style:           FireworkStyleGesture,
			SparksPerBurst:  fw.SparksPerBurst,
			Interval:        DefaultAmbientFireworkConfig().Interval,
			MovementTrigger: gesture.MovementTrigger,
			Cooldown:        gesture.Cooldown,
			Sustain:         gesture.Sustain,
		},
		Circles: CircleSettings{
			Amplitude:  vis.CircleAmplitude,
			Frequency:  vis.CircleFrequency,
			GrowthRate: vis.GrowthRate,
			MaxGrowth:  vis.MaxGrowth,
		},
	}
}

// LoadConfig parses JSON over DefaultConfig, so omitted keys keep their
// defaults, and normalizes the result. Unrecognised top-level keys are
// reported on stderr.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	unknown, err := UnknownKeys(data)
	if err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	for _, key := range unknown {
		_, _ = fmt.Fprintf(os.Stderr, "[posepaint] config: unrecognised key %q\n", key)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// LoadConfigFile reads and parses a JSON config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read config %s: %w", path, err)
	}
	return LoadConfig(data)
}

// UnknownKeys returns the sorted top-level keys of a JSON object that
// Config does not recognise.
func UnknownKeys(data []byte) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	known := knownKeys(Config{})
	var unknown []string
	for key := range raw {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown, nil
}

func knownKeys(v any) map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if name := strings.Split(tag, ",")[0]; name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}

// Normalize replaces invalid values with defaults and clamps ranges.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if _, err := HexToRGB(c.Color); err != nil {
		c.Color = def.Color
	}
	positive(&c.Size, def.Size)
	if math.IsNaN(c.Opacity) {
		c.Opacity = def.Opacity
	}
	c.Opacity = clamp(c.Opacity, 0, 100)
	if !validThreshold(c.MinConfidence) {
		c.MinConfidence = def.MinConfidence
	}
	if c.TrailLength <= 0 {
		c.TrailLength = def.TrailLength
	}
	if c.TrailLength > MaxTrailLength {
		c.TrailLength = MaxTrailLength
	}
	if math.IsNaN(c.Fade) {
		c.Fade = 0
	}
	c.Fade = clamp01(c.Fade)

	positive(&c.Smoke.EmitRate, def.Smoke.EmitRate)
	positiveInt(&c.Smoke.MaxParticles, def.Smoke.MaxParticles)
	positive(&c.Smoke.Size, def.Smoke.Size)
	if !(c.Smoke.MaxSizeMult >= 1) || math.IsInf(c.Smoke.MaxSizeMult, 0) {
		c.Smoke.MaxSizeMult = def.Smoke.MaxSizeMult
	}
	positive(&c.Smoke.WindGain, def.Smoke.WindGain)
	positive(&c.Smoke.MaxWind, def.Smoke.MaxWind)

	if len(c.Particles.Keypoints) == 0 {
		c.Particles.Keypoints = def.Particles.Keypoints
	}
	positiveInt(&c.Particles.Count, def.Particles.Count)
	positive(&c.Particles.Size, def.Particles.Size)
	positive(&c.Particles.NoiseStrength, def.Particles.NoiseStrength)
	positiveInt(&c.Particles.BurstCount, def.Particles.BurstCount)

	if c.Fireworks.Style != FireworkStyleAmbient {
		c.Fireworks.Style = FireworkStyleGesture
	}
	positiveInt(&c.Fireworks.SparksPerBurst, def.Fireworks.SparksPerBurst)
	positive(&c.Fireworks.Interval, def.Fireworks.Interval)
	positive(&c.Fireworks.MovementTrigger, def.Fireworks.MovementTrigger)
	positive(&c.Fireworks.Cooldown, def.Fireworks.Cooldown)
	positive(&c.Fireworks.Sustain, def.Fireworks.Sustain)

	positive(&c.Circles.Amplitude, def.Circles.Amplitude)
	positive(&c.Circles.Frequency, def.Circles.Frequency)
	positive(&c.Circles.GrowthRate, def.Circles.GrowthRate)
	positive(&c.Circles.MaxGrowth, def.Circles.MaxGrowth)
}

func positive(v *float64, def float64) {
	if !(*v > 0) || math.IsInf(*v, 0) {
		*v = def
	}
}

func positiveInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

// ParticleKeypoints resolves the configured landmark names to indices.
// Unknown names are skipped; "all" selects every keypoint.
func (c Config) ParticleKeypoints() []int {
	var idx []int
	for _, name := range c.Particles.Keypoints {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "all" {
			return AllKeypoints
		}
		if i := KeypointIndex(name); i >= 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// PaintColor returns the parsed keypoint color.
func (c Config) PaintColor() Color {
	return ParseColor(c.Color, ColorWhite)
}

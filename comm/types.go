package comm

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownValue = errors.New("unknown value")

type Color uint8
type Intensity uint8
type Animation uint8
type Speed uint8
type Pattern uint8
type Rotation uint8
type Audible uint8

// Color values
const (
	Green Color = iota
	Red
	Orange
	Amber
	Yellow
	LimeGreen
	SpringGreen
	Cyan
	SkyBlue
	Blue
	Violet
	Magenta
	Rose
	White
)

// Intensity values
const (
	IntensityHigh Intensity = iota
	IntensityLow
	IntensityMedium
	IntensityOff
)

// Animation values
const (
	AnimationOff Animation = iota
	AnimationSteady
	AnimationFlash
	AnimationTwoColorFlash
	AnimationHalfHalf
	AnimationHalfHalfRotate
	AnimationChase
	AnimationIntensitySweep
)

// Speed values
const (
	SpeedStandard Speed = iota
	SpeedFast
	SpeedSlow
)

// Pattern values
const (
	PatternNormal Pattern = iota
	PatternStrobe
	PatternThreePulse
	PatternSos
	PatternRandom
)

// Rotation values
const (
	CounterClockwise Rotation = iota
	Clockwise
)

// Audible values
const (
	AudibleOff Audible = iota
	AudibleSteady
	AudiblePulsed
	AudibleSos
)

var (
	colorNames = []string{
		"green", "red", "orange", "amber", "yellow", "lime-green", "spring-green",
		"cyan", "sky-blue", "blue", "violet", "magenta", "rose", "white",
	}
	intensityNames = []string{"high", "low", "medium", "off"}
	animationNames = []string{
		"off", "steady", "flash", "two-color-flash", "half-half",
		"half-half-rotate", "chase", "intensity-sweep",
	}
	speedNames    = []string{"standard", "fast", "slow"}
	patternNames  = []string{"normal", "strobe", "three-pulse", "sos", "random"}
	rotationNames = []string{"counter-clockwise", "clockwise"}
	audibleNames  = []string{"off", "steady", "pulsed", "sos"}
)

func nameOf(names []string, v uint8) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("invalid(%d)", v)
}

// parseName accepts kebab-case, snake_case and case-insensitive CamelCase spellings,
// so "SkyBlue", "sky_blue" and "sky-blue" all resolve to the same value.
func parseName(kind string, names []string, s string) (uint8, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for i, name := range names {
		if strings.ReplaceAll(name, "-", "") == key {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("%s %q: %w", kind, s, ErrUnknownValue)
}

func (c Color) String() string     { return nameOf(colorNames, uint8(c)) }
func (i Intensity) String() string { return nameOf(intensityNames, uint8(i)) }
func (a Animation) String() string { return nameOf(animationNames, uint8(a)) }
func (s Speed) String() string     { return nameOf(speedNames, uint8(s)) }
func (p Pattern) String() string   { return nameOf(patternNames, uint8(p)) }
func (r Rotation) String() string  { return nameOf(rotationNames, uint8(r)) }
func (a Audible) String() string   { return nameOf(audibleNames, uint8(a)) }

func (c Color) Valid() bool     { return int(c) < len(colorNames) }
func (i Intensity) Valid() bool { return int(i) < len(intensityNames) }
func (a Animation) Valid() bool { return int(a) < len(animationNames) }
func (s Speed) Valid() bool     { return int(s) < len(speedNames) }
func (p Pattern) Valid() bool   { return int(p) < len(patternNames) }
func (r Rotation) Valid() bool  { return int(r) < len(rotationNames) }
func (a Audible) Valid() bool   { return int(a) < len(audibleNames) }

func ParseColor(s string) (Color, error) {
	v, err := parseName("color", colorNames, s)
	return Color(v), err
}

func ParseIntensity(s string) (Intensity, error) {
	v, err := parseName("intensity", intensityNames, s)
	return Intensity(v), err
}

func ParseAnimation(s string) (Animation, error) {
	v, err := parseName("animation", animationNames, s)
	return Animation(v), err
}

func ParseSpeed(s string) (Speed, error) {
	v, err := parseName("speed", speedNames, s)
	return Speed(v), err
}

func ParsePattern(s string) (Pattern, error) {
	v, err := parseName("pattern", patternNames, s)
	return Pattern(v), err
}

func ParseRotation(s string) (Rotation, error) {
	v, err := parseName("rotation", rotationNames, s)
	return Rotation(v), err
}

func ParseAudible(s string) (Audible, error) {
	v, err := parseName("audible", audibleNames, s)
	return Audible(v), err
}

// Indication is one complete visual and audible state of the tower light.
// For the chase animation Color1 is the moving segment and Color2 the background.
type Indication struct {
	Color1     Color
	Intensity1 Intensity
	Animation  Animation
	Speed      Speed
	Pattern    Pattern
	Color2     Color
	Intensity2 Intensity
	Rotation   Rotation
	Audible    Audible
}

func (ind Indication) Valid() bool {
	return ind.Color1.Valid() && ind.Intensity1.Valid() && ind.Animation.Valid() &&
		ind.Speed.Valid() && ind.Pattern.Valid() && ind.Color2.Valid() &&
		ind.Intensity2.Valid() && ind.Rotation.Valid() && ind.Audible.Valid()
}

func (ind Indication) String() string {
	return fmt.Sprintf("%s %s/%s %s/%s %s %s %s audible=%s",
		ind.Animation, ind.Color1, ind.Intensity1, ind.Color2, ind.Intensity2,
		ind.Speed, ind.Pattern, ind.Rotation, ind.Audible)
}

type commandKind int

// commandKind values
const (
	_ = iota
	enableAdvancedSegmentMode
	setIndication
)

// Command is either the enable (heartbeat) command or a full indication.
// The zero Command behaves like the enable command.
type Command struct {
	command    commandKind
	indication Indication
}

func (c Command) IsEnable() bool {
	return c.command != setIndication
}

func (c Command) Indication() (Indication, bool) {
	if c.command != setIndication {
		return Indication{}, false
	}
	return c.indication, true
}

func (c Command) String() string {
	if c.command != setIndication {
		return "enable"
	}
	return c.indication.String()
}

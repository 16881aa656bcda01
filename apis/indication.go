package apis

import (
	"fmt"

	"github.com/thiefmaster/towerlight/comm"
)

// IndicationSpec describes a light state by names, as found in the config file
// and in control messages. Empty fields take the device defaults, except the
// animation (steady) and the intensities (high).
type IndicationSpec struct {
	Animation  string `yaml:"animation" json:"animation"`
	Color      string `yaml:"color" json:"color"`
	Intensity  string `yaml:"intensity" json:"intensity"`
	Color2     string `yaml:"color2" json:"color2"`
	Intensity2 string `yaml:"intensity2" json:"intensity2"`
	Speed      string `yaml:"speed" json:"speed"`
	Pattern    string `yaml:"pattern" json:"pattern"`
	Rotation   string `yaml:"rotation" json:"rotation"`
	Audible    string `yaml:"audible" json:"audible"`
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (s IndicationSpec) Indication() (ind comm.Indication, err error) {
	if ind.Animation, err = comm.ParseAnimation(orDefault(s.Animation, "steady")); err != nil {
		return
	}
	if ind.Color1, err = comm.ParseColor(orDefault(s.Color, "green")); err != nil {
		return
	}
	if ind.Intensity1, err = comm.ParseIntensity(orDefault(s.Intensity, "high")); err != nil {
		return
	}
	if ind.Color2, err = comm.ParseColor(orDefault(s.Color2, "green")); err != nil {
		return
	}
	if ind.Intensity2, err = comm.ParseIntensity(orDefault(s.Intensity2, "high")); err != nil {
		return
	}
	if ind.Speed, err = comm.ParseSpeed(orDefault(s.Speed, "standard")); err != nil {
		return
	}
	if ind.Pattern, err = comm.ParsePattern(orDefault(s.Pattern, "normal")); err != nil {
		return
	}
	if ind.Rotation, err = comm.ParseRotation(orDefault(s.Rotation, "counter-clockwise")); err != nil {
		return
	}
	ind.Audible, err = comm.ParseAudible(orDefault(s.Audible, "off"))
	return
}

func (s IndicationSpec) Command() (comm.Command, error) {
	ind, err := s.Indication()
	if err != nil {
		return comm.Command{}, fmt.Errorf("invalid indication: %w", err)
	}
	return comm.NewIndicationCommand(ind), nil
}

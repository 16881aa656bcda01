package comm

func NewEnableCommand() Command {
	return Command{command: enableAdvancedSegmentMode}
}

func NewIndicationCommand(ind Indication) Command {
	return Command{command: setIndication, indication: ind}
}

func NewOffCommand() Command {
	return NewIndicationCommand(Indication{
		Color1:     Green,
		Intensity1: IntensityOff,
		Animation:  AnimationSteady,
	})
}

func NewSteadyCommand(color Color, intensity Intensity) Command {
	return NewIndicationCommand(Indication{
		Color1:     color,
		Intensity1: intensity,
		Animation:  AnimationSteady,
	})
}

func NewFlashCommand(color Color, intensity Intensity, speed Speed, pattern Pattern) Command {
	return NewIndicationCommand(Indication{
		Color1:     color,
		Intensity1: intensity,
		Animation:  AnimationFlash,
		Speed:      speed,
		Pattern:    pattern,
	})
}

func NewTwoColorFlashCommand(color1 Color, intensity1 Intensity, color2 Color, intensity2 Intensity, speed Speed, pattern Pattern) Command {
	return NewIndicationCommand(Indication{
		Color1:     color1,
		Intensity1: intensity1,
		Animation:  AnimationTwoColorFlash,
		Speed:      speed,
		Pattern:    pattern,
		Color2:     color2,
		Intensity2: intensity2,
	})
}

func NewHalfHalfCommand(color1 Color, intensity1 Intensity, color2 Color, intensity2 Intensity) Command {
	return NewIndicationCommand(Indication{
		Color1:     color1,
		Intensity1: intensity1,
		Animation:  AnimationHalfHalf,
		Color2:     color2,
		Intensity2: intensity2,
	})
}

func NewHalfHalfRotateCommand(color1 Color, intensity1 Intensity, color2 Color, intensity2 Intensity, speed Speed, rotation Rotation) Command {
	return NewIndicationCommand(Indication{
		Color1:     color1,
		Intensity1: intensity1,
		Animation:  AnimationHalfHalfRotate,
		Speed:      speed,
		Color2:     color2,
		Intensity2: intensity2,
		Rotation:   rotation,
	})
}

// NewChaseCommand moves color1 around a color2 background.
func NewChaseCommand(color1 Color, intensity1 Intensity, color2 Color, intensity2 Intensity, speed Speed, rotation Rotation) Command {
	return NewIndicationCommand(Indication{
		Color1:     color1,
		Intensity1: intensity1,
		Animation:  AnimationChase,
		Speed:      speed,
		Color2:     color2,
		Intensity2: intensity2,
		Rotation:   rotation,
	})
}

func NewIntensitySweepCommand(color Color, intensity Intensity, speed Speed) Command {
	return NewIndicationCommand(Indication{
		Color1:     color,
		Intensity1: intensity,
		Animation:  AnimationIntensitySweep,
		Speed:      speed,
	})
}

// WithAudible returns a copy of an indication command with the audible field
// replaced. Enable commands carry no audible state and are returned as is.
func (c Command) WithAudible(audible Audible) Command {
	if c.command != setIndication {
		return c
	}
	c.indication.Audible = audible
	return c
}

package galaxy

// Physical constants in SI units.
const (
	G              = 6.674e-11
	SpeedOfLight   = 299792458.0
	SecondsPerYear = 31557600.0
	LightYear      = SpeedOfLight * SecondsPerYear
	SolarMass      = 1.989e30
)

// Generation scales.
const (
	// BaseVelocity scales the isotropic velocity draw (m/s).
	BaseVelocity = 5e3
	// SpiralVelocity scales the rotational override (m/s at r == simRadius).
	SpiralVelocity = 5e5
	// SpreadDivisor narrows the position distribution relative to simRadius.
	SpreadDivisor = 10.0
)

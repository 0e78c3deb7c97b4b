package game

// Joystick is an analog two-axis stick with a push button. Readings and
// baselines are raw ADC counts; the baselines are sampled once at rest.
type Joystick interface {
	Vertical() int
	Horizontal() int
	VerticalBaseline() int
	HorizontalBaseline() int
	IsDepressed() bool
}

// DefaultJoystickThreshold is the minimum deviation from baseline, in ADC
// counts, that counts as a push.
const DefaultJoystickThreshold = 450

// JoystickSource turns joystick readings into at most one command per tick.
// A push past the threshold wins over the button; the button toggles the
// layer once per press.
type JoystickSource struct {
	js        Joystick
	threshold int
	held      bool
}

// NewJoystickSource wraps js. A non-positive threshold selects the default.
func NewJoystickSource(js Joystick, threshold int) *JoystickSource {
	if threshold <= 0 {
		threshold = DefaultJoystickThreshold
	}
	return &JoystickSource{js: js, threshold: threshold}
}

// NextCommand implements CommandSource.
func (s *JoystickSource) NextCommand() (Command, bool) {
	if d, ok := s.direction(); ok {
		s.held = s.held && s.js.IsDepressed()
		return Turn(d), true
	}
	if s.js.IsDepressed() {
		if s.held {
			return Command{}, false
		}
		s.held = true
		return LayerToggle(), true
	}
	s.held = false
	return Command{}, false
}

// direction picks the more deflected axis; on a tie the vertical axis wins.
func (s *JoystickSource) direction() (Direction, bool) {
	dh := s.js.Horizontal() - s.js.HorizontalBaseline()
	dv := s.js.Vertical() - s.js.VerticalBaseline()
	pushedH := abs(dh) > s.threshold
	pushedV := abs(dv) > s.threshold
	if !pushedH && !pushedV {
		return Up, false
	}
	if abs(dh) > abs(dv) {
		if dh > 0 {
			return Right, true
		}
		return Left, true
	}
	if dv > 0 {
		return Down, true
	}
	return Up, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

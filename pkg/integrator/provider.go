package integrator

// FromSpring returns a single or double spring integrator for p.
func FromSpring(p SpringParams) (Integrator, error) {
	if p.Double != nil {
		return NewDoubleSpring(p)
	}
	return NewSpring(p)
}

// FromInertia returns an inertia integrator for p.
func FromInertia(p InertiaParams) (Integrator, error) {
	return NewInertia(p)
}

// Simulate steps in from s toward target at a fixed dt until it settles or
// maxSteps is reached. It returns the final state and the number of steps taken.
func Simulate(in Integrator, s State, target, dt float64, maxSteps int) (State, int) {
	n := 0
	for ; n < maxSteps && !in.IsSettled(s, target); n++ {
		s = in.Step(s, target, dt)
	}
	return s, n
}

package dynamo

import "github.com/go-gl/mathgl/mgl64"

// Spring is a Hookean connector between two points it does not own.
type Spring struct {
	Point1     *MassPoint
	Point2     *MassPoint
	RestLength float64
	Stiffness  float64
}

// NewSpring rests at the current distance between p1 and p2.
func NewSpring(p1, p2 *MassPoint, stiffness float64) *Spring {
	s := &Spring{Point1: p1, Point2: p2, Stiffness: stiffness}
	if p1 != nil && p2 != nil {
		s.RestLength = s.Length()
	}
	return s
}

func NewSpringWithLength(p1, p2 *MassPoint, restLength, stiffness float64) *Spring {
	return &Spring{Point1: p1, Point2: p2, RestLength: restLength, Stiffness: stiffness}
}

func (s *Spring) delta() mgl64.Vec3 {
	return s.Point2.livePosition().Sub(s.Point1.livePosition())
}

func (s *Spring) Length() float64 {
	return s.delta().Len()
}

// CalculateElasticForces returns the force on Point1; Point2 receives its
// negation. A stretched spring pulls Point1 toward Point2.
func (s *Spring) CalculateElasticForces() mgl64.Vec3 {
	d := s.delta()
	length := d.Len()
	if length == 0 {
		return mgl64.Vec3{}
	}
	return d.Mul(s.Stiffness * (length - s.RestLength) / length)
}

func (s *Spring) PotentialEnergy() float64 {
	stretch := s.Length() - s.RestLength
	return 0.5 * s.Stiffness * stretch * stretch
}

func (s *Spring) touches(p *MassPoint) bool {
	return s.Point1 == p || s.Point2 == p
}

package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"go.viam.com/test"
)

func TestPoseMatrixRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		p := randomPose(r)
		m := PoseToMatrix(p)
		test.That(t, m.At(3, 3), test.ShouldEqual, 1.)
		test.That(t, m.At(0, 3), test.ShouldAlmostEqual, p.Point().X)
		test.That(t, m.At(1, 3), test.ShouldAlmostEqual, p.Point().Y)
		test.That(t, m.At(2, 3), test.ShouldAlmostEqual, p.Point().Z)
		test.That(t, PoseAlmostEqualEps(PoseFromMatrix(m), p, 1e-9), test.ShouldBeTrue)
	}
}

func TestMatrixComposeMatchesPoseCompose(t *testing.T) {
	a := NewPoseFromRPY(0.1, 0.2, 0.3, 1, 0, 0)
	b := NewPoseFromRPY(-0.4, 0.5, math.Pi/3, 0, 2, -1)
	viaMatrix := PoseToMatrix(a).Mul4(PoseToMatrix(b))
	test.That(t, viaMatrix.ApproxEqualThreshold(PoseToMatrix(Compose(a, b)), 1e-9), test.ShouldBeTrue)

	test.That(t, PoseToMatrix(NewZeroPose()).ApproxEqualThreshold(mgl64.Ident4(), 1e-12), test.ShouldBeTrue)
}

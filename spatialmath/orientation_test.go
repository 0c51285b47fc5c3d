package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

// represent a 45 degree rotation around the x axis in all the representations
var (
	th    = math.Pi / 4.
	q45x  = quat.Number{Real: math.Cos(th / 2.), Imag: math.Sin(th / 2.)} // in quaternion representation
	aa45x = &R4AA{th, 1., 0., 0.}                                          // in axis-angle representation
	ea45x = &EulerAngles{Roll: th, Pitch: 0, Yaw: 0}                       // in euler angle representation
	rm45x = &RotationMatrix{[9]float64{
		1, 0, 0,
		0, math.Cos(th), -math.Sin(th),
		0, math.Sin(th), math.Cos(th),
	}}
)

func TestZeroOrientation(t *testing.T) {
	zero := NewZeroOrientation()
	test.That(t, zero.AxisAngles(), test.ShouldResemble, NewR4AA())
	test.That(t, zero.Quaternion(), test.ShouldResemble, quat.Number{Real: 1})
	test.That(t, zero.EulerAngles(), test.ShouldResemble, NewEulerAngles())
}

func testConversions(t *testing.T, o Orientation) {
	t.Helper()
	test.That(t, QuaternionAlmostEqual(o.Quaternion(), q45x, 1e-9), test.ShouldBeTrue)
	test.That(t, o.AxisAngles().Theta, test.ShouldAlmostEqual, aa45x.Theta)
	test.That(t, o.AxisAngles().RX, test.ShouldAlmostEqual, aa45x.RX)
	test.That(t, o.AxisAngles().RY, test.ShouldAlmostEqual, aa45x.RY)
	test.That(t, o.AxisAngles().RZ, test.ShouldAlmostEqual, aa45x.RZ)
	test.That(t, o.EulerAngles().Roll, test.ShouldAlmostEqual, ea45x.Roll)
	test.That(t, o.EulerAngles().Pitch, test.ShouldAlmostEqual, ea45x.Pitch)
	test.That(t, o.EulerAngles().Yaw, test.ShouldAlmostEqual, ea45x.Yaw)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			test.That(t, o.RotationMatrix().At(r, c), test.ShouldAlmostEqual, rm45x.At(r, c))
		}
	}
}

func TestQuaternions(t *testing.T) {
	qq45x := quaternion(q45x)
	testConversions(t, &qq45x)
}

func TestOrientationFromQuat(t *testing.T) {
	testConversions(t, NewOrientationFromQuat(quat.Scale(3, q45x)))
	test.That(t, NewOrientationFromQuat(quat.Number{}).Quaternion(), test.ShouldResemble, quat.Number{Real: 1})
}

func TestEulerAngles(t *testing.T) {
	testConversions(t, ea45x)
}

func TestAxisAngles(t *testing.T) {
	testConversions(t, aa45x)

	// converting does not normalize the caller's axis
	unnormalized := &R4AA{Theta: th, RX: 2}
	test.That(t, QuaternionAlmostEqual(unnormalized.Quaternion(), q45x, 1e-9), test.ShouldBeTrue)
	test.That(t, unnormalized.EulerAngles().Roll, test.ShouldAlmostEqual, th)
	test.That(t, unnormalized.RX, test.ShouldEqual, 2.)

	zero := &R4AA{Theta: 1}
	test.That(t, zero.ToQuat(), test.ShouldResemble, quat.Number{Real: 1})
}

func TestRotationMatrix(t *testing.T) {
	testConversions(t, rm45x)
	test.That(t, rm45x.IsOrthonormal(1e-9), test.ShouldBeTrue)

	_, err := NewRotationMatrix([]float64{1, 2, 3})
	test.That(t, err, test.ShouldNotBeNil)

	skewed, err := NewRotationMatrix([]float64{1, 0.1, 0, 0, 1, 0, 0, 0, 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, skewed.IsOrthonormal(1e-9), test.ShouldBeFalse)

	mirrored, err := NewRotationMatrix([]float64{-1, 0, 0, 0, 1, 0, 0, 0, 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mirrored.IsOrthonormal(1e-9), test.ShouldBeFalse)
}

func TestOrientationBetween(t *testing.T) {
	a := &EulerAngles{Yaw: 0.3}
	b := &EulerAngles{Yaw: 1.0}
	between := OrientationBetween(a, b)
	test.That(t, between.EulerAngles().Yaw, test.ShouldAlmostEqual, 0.7)

	inv := OrientationInverse(b)
	test.That(t, inv.EulerAngles().Yaw, test.ShouldAlmostEqual, -1.0)
	test.That(t, OrientationAlmostEqual(a, &EulerAngles{Yaw: 0.3 + 1e-9}), test.ShouldBeTrue)
}

package referenceframe

import (
	"encoding/xml"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/fk/spatialmath"
)

// URDFConfig represents the supported fields of a Universal Robot Description Format (URDF) file.
type URDFConfig struct {
	XMLName xml.Name    `xml:"robot"`
	Name    string      `xml:"name,attr"`
	Links   []URDFLink  `xml:"link"`
	Joints  []URDFJoint `xml:"joint"`
}

// URDFLink is a struct which details the XML used in a URDF link element. Visual, collision and inertial
// children are ignored.
type URDFLink struct {
	XMLName xml.Name `xml:"link"`
	Name    string   `xml:"name,attr"`
}

// URDFJoint is a struct which details the XML used in a URDF joint element.
type URDFJoint struct {
	XMLName xml.Name   `xml:"joint"`
	Name    string     `xml:"name,attr"`
	Type    string     `xml:"type,attr"`
	Parent  urdfFrame  `xml:"parent"`
	Child   urdfFrame  `xml:"child"`
	Origin  *urdfPose  `xml:"origin,omitempty"`
	Axis    *urdfAxis  `xml:"axis,omitempty"`
	Limit   *urdfLimit `xml:"limit,omitempty"`
}

type urdfFrame struct {
	Link string `xml:"link,attr"`
}

type urdfLimit struct {
	Lower float64 `xml:"lower,attr"` // translation limits are in meters, revolute limits are in radians
	Upper float64 `xml:"upper,attr"`
}

type urdfAxis struct {
	XYZ string `xml:"xyz,attr"`
}

type urdfPose struct {
	RPY string `xml:"rpy,attr"` // fixed frame angles "r p y", in radians
	XYZ string `xml:"xyz,attr"` // "x y z", in meters
}

func (p *urdfPose) parse() (*OriginConfig, error) {
	xyz, err := spaceDelimitedStringToVector(p.XYZ)
	if err != nil {
		return nil, errors.Wrap(err, "origin xyz")
	}
	rpy, err := spaceDelimitedStringToVector(p.RPY)
	if err != nil {
		return nil, errors.Wrap(err, "origin rpy")
	}
	return &OriginConfig{XYZ: xyz, RPY: spatialmath.EulerAngles{Roll: rpy.X, Pitch: rpy.Y, Yaw: rpy.Z}}, nil
}

// ParseModelXMLFile will read a given file and parse the contained URDF XML data into an equivalent ModelConfig.
func ParseModelXMLFile(filename, modelName string) (*ModelConfig, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	return UnmarshalModelXML(xmlData, modelName)
}

// UnmarshalModelXML converts URDF XML data into an equivalent ModelConfig using the urdf joint convention. A missing
// origin is the identity, a missing axis is +X and missing rpy or xyz attributes are zero. modelName overrides the
// robot name in the document when non-empty.
func UnmarshalModelXML(xmlData []byte, modelName string) (*ModelConfig, error) {
	// empty data probably means that the read URDF has no actionable information
	if len(xmlData) == 0 {
		return nil, ErrNoModelInformation
	}

	urdf := &URDFConfig{}
	if err := xml.Unmarshal(xmlData, urdf); err != nil {
		return nil, errors.Wrap(err, "failed to convert URDF data to equivalent URDFConfig struct")
	}
	if modelName == "" {
		modelName = urdf.Name
	}

	mc := &ModelConfig{Name: modelName, Convention: string(URDFConvention)}
	for _, l := range urdf.Links {
		mc.Links = append(mc.Links, LinkConfig{ID: l.Name})
	}
	for _, jointElem := range urdf.Joints {
		jc := JointConfig{
			ID:     jointElem.Name,
			Type:   jointElem.Type,
			Parent: jointElem.Parent.Link,
			Child:  jointElem.Child.Link,
		}
		if jointElem.Origin != nil {
			origin, err := jointElem.Origin.parse()
			if err != nil {
				return nil, errors.Wrapf(err, "joint %q", jointElem.Name)
			}
			jc.Origin = origin
		}
		if jointElem.Axis != nil {
			a, err := spaceDelimitedStringToVector(jointElem.Axis.XYZ)
			if err != nil {
				return nil, errors.Wrapf(err, "joint %q axis", jointElem.Name)
			}
			jc.Axis = &a
		}
		if jointElem.Limit != nil {
			jc.Limit = &LimitConfig{Lower: jointElem.Limit.Lower, Upper: jointElem.Limit.Upper}
		}
		mc.Joints = append(mc.Joints, jc)
	}
	return mc, nil
}

// spaceDelimitedStringToVector splits a space-delimited "x y z" attribute into a vector. An empty attribute is the
// zero vector.
func spaceDelimitedStringToVector(s string) (r3.Vector, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return r3.Vector{}, nil
	}
	if len(fields) != 3 {
		return r3.Vector{}, errors.Errorf("expected 3 values, got %d in %q", len(fields), s)
	}
	var converted [3]float64
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			value = math.NaN()
		}
		converted[i] = value
	}
	return r3.Vector{X: converted[0], Y: converted[1], Z: converted[2]}, nil
}

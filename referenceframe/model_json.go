package referenceframe

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// UnmarshalModelJSON will parse the given JSON data into a ModelConfig. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*ModelConfig, error) {
	// empty data probably means that the robot has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	mc := &ModelConfig{}
	if err := json.Unmarshal(jsonData, mc); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	if modelName != "" {
		mc.Name = modelName
	}
	return mc, nil
}

// ParseModelJSONFile will read a given file and parse the contained JSON data into a ModelConfig.
func ParseModelJSONFile(filename, modelName string) (*ModelConfig, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// ModelConfigFromMap decodes an already parsed description, such as the attributes of a config file, into a
// ModelConfig. Vectors may be given either as {"x", "y", "z"} objects or as three element lists.
func ModelConfigFromMap(attributes map[string]interface{}, modelName string) (*ModelConfig, error) {
	if len(attributes) == 0 {
		return nil, ErrNoModelInformation
	}
	mc := &ModelConfig{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     mc,
		DecodeHook: mapstructure.DecodeHookFuncType(vectorFromListHook),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "failed to decode model attributes")
	}
	if modelName != "" {
		mc.Name = modelName
	}
	return mc, nil
}

var vectorType = reflect.TypeOf(r3.Vector{})

func vectorFromListHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != vectorType || (from.Kind() != reflect.Slice && from.Kind() != reflect.Array) {
		return data, nil
	}
	v := reflect.ValueOf(data)
	if v.Len() != 3 {
		return nil, errors.Errorf("expected 3 values for a vector, got %d", v.Len())
	}
	return map[string]interface{}{"X": v.Index(0).Interface(), "Y": v.Index(1).Interface(), "Z": v.Index(2).Interface()}, nil
}

// ParseModelFile reads a JSON (.json) or URDF (.urdf, .xml) description, choosing the loader by file extension.
func ParseModelFile(filename, modelName string) (*ModelConfig, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		return ParseModelJSONFile(filename, modelName)
	case ".urdf", ".xml":
		return ParseModelXMLFile(filename, modelName)
	default:
		return nil, errors.Errorf("unsupported model file extension %q", ext)
	}
}

// NewTreeFromFile parses a description file and builds its kinematic tree.
func NewTreeFromFile(filename, modelName string) (*Tree, error) {
	mc, err := ParseModelFile(filename, modelName)
	if err != nil {
		return nil, err
	}
	return NewTree(mc)
}

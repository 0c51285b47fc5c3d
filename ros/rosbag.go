// Package ros bridges ROS recordings and messages to the kinematics packages: joint_states input from bags and
// tf-style output messages.
package ros

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/edaniels/gobag/rosbag"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// DefaultJointStatesTopic is the topic joint_states are recorded on.
const DefaultJointStatesTopic = "/joint_states"

// ReadBag reads the contents of a rosbag into a gobag data structure.
func ReadBag(filename string) (*rosbag.RosBag, error) {
	//nolint:gosec
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open input file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	rb := rosbag.NewRosBag()

	if err := rb.Read(f); err != nil {
		return nil, errors.Wrapf(err, "unable to create ros bag, error")
	}

	return rb, nil
}

// topicKey is the name gobag files a topic's messages under: no leading slash, slashes as underscores, lower case.
func topicKey(topic string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(topic, "/"), "/", "_"))
}

// AllMessagesForTopic returns all messages for a specific topic in the ros bag.
func AllMessagesForTopic(rb *rosbag.RosBag, topic string) ([]map[string]interface{}, error) {
	if err := rb.ParseTopicsToJSON(
		"",
		func(int64) bool { return true },
		func(t string) bool { return t == topic },
		false,
	); err != nil {
		return nil, errors.Wrapf(err, "error while parsing bag to JSON")
	}

	msgs := rb.TopicsAsJSON[topicKey(topic)]
	if msgs == nil {
		return nil, errors.Errorf("no messages for topic %s", topic)
	}

	all := []map[string]interface{}{}

	for {
		data, err := msgs.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		message := map[string]interface{}{}
		err = json.Unmarshal(data, &message)
		if err != nil {
			return nil, err
		}

		all = append(all, message)
	}

	return all, nil
}

// JointStatesFromBag returns the sensor_msgs/JointState messages recorded on topic, in recording order.
func JointStatesFromBag(rb *rosbag.RosBag, topic string) ([]JointStateMessage, error) {
	raw, err := AllMessagesForTopic(rb, topic)
	if err != nil {
		return nil, err
	}
	msgs := make([]JointStateMessage, 0, len(raw))
	for i, m := range raw {
		msg, err := JointStateFromMap(m)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d on %s", i, topic)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// JointStateFromMap decodes one parsed bag message, {"meta": {...}, "data": {...}}, into a JointStateMessage.
func JointStateFromMap(m map[string]interface{}) (JointStateMessage, error) {
	var msg JointStateMessage
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &msg})
	if err != nil {
		return msg, err
	}
	if err := decoder.Decode(m); err != nil {
		return msg, errors.Wrap(err, "failed to decode joint state")
	}
	if len(msg.Data.Name) != len(msg.Data.Position) {
		return msg, errors.Errorf("joint state has %d names but %d positions", len(msg.Data.Name), len(msg.Data.Position))
	}
	return msg, nil
}

// ReadJointStatesJSON reads joint states from JSON lines in the layout gobag exports topics to, one message per
// line. Blank lines are skipped.
func ReadJointStatesJSON(r io.Reader) ([]JointStateMessage, error) {
	var msgs []JointStateMessage
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		m := map[string]interface{}{}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		msg, err := JointStateFromMap(m)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		msgs = append(msgs, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return msgs, nil
}

// ReadJointStatesFile reads joint states from a .bag file, taking the given topic, or from a JSON lines export.
func ReadJointStatesFile(filename, topic string) ([]JointStateMessage, error) {
	if strings.EqualFold(filepath.Ext(filename), ".bag") {
		rb, err := ReadBag(filename)
		if err != nil {
			return nil, err
		}
		return JointStatesFromBag(rb, topic)
	}
	//nolint:gosec
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open input file")
	}
	defer utils.UncheckedErrorFunc(f.Close)
	return ReadJointStatesJSON(f)
}

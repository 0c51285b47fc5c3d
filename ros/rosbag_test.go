package ros

import (
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/fk/utils"
)

func TestReadJointStatesFile(t *testing.T) {
	msgs, err := ReadJointStatesFile(utils.ResolveFile("ros/testdata/joint_states.jsonl"), DefaultJointStatesTopic)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(msgs), test.ShouldEqual, 5)

	test.That(t, msgs[1].Meta, test.ShouldResemble, Time{Secs: 100, Nsecs: 500000000})
	test.That(t, msgs[1].Data.Header.Seq, test.ShouldEqual, 2)
	values, err := msgs[1].Data.Values()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, values, test.ShouldResemble, map[string]float64{"joint_a": 0.3, "joint_b": 0.4})

	_, err = ReadJointStatesFile(utils.ResolveFile("ros/testdata/missing.bag"), DefaultJointStatesTopic)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadJointStatesBag(t *testing.T) {
	rb, err := ReadBag(utils.ResolveFile("ros/testdata/joint_states.bag"))
	test.That(t, err, test.ShouldBeNil)

	raw, err := AllMessagesForTopic(rb, DefaultJointStatesTopic)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(raw), test.ShouldEqual, 3)
	test.That(t, raw[0]["data"], test.ShouldNotBeNil)

	_, err = AllMessagesForTopic(rb, "/tf")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no messages for topic /tf")

	msgs, err := ReadJointStatesFile(utils.ResolveFile("ros/testdata/joint_states.bag"), DefaultJointStatesTopic)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(msgs), test.ShouldEqual, 3)

	test.That(t, msgs[1].Meta, test.ShouldResemble, Time{Secs: 200, Nsecs: 250000000})
	test.That(t, msgs[1].Data.Header.Seq, test.ShouldEqual, 2)
	test.That(t, msgs[1].Data.Header.Stamp, test.ShouldResemble, Time{Secs: 200, Nsecs: 250000000})
	values, err := msgs[1].Data.Values()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, values, test.ShouldResemble, map[string]float64{"joint_a": 0.35, "joint_b": -0.45})

	values, err = msgs[2].Data.Values()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, values, test.ShouldResemble, map[string]float64{"joint_a": 0.7, "joint_b": 0.6})

	_, err = ReadBag(utils.ResolveFile("ros/testdata/missing.bag"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadJointStatesJSON(t *testing.T) {
	_, err := ReadJointStatesJSON(strings.NewReader(`{"meta": {"secs": 1}, "data": {"name": ["a", "b"], "position": [1]}}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "line 1")

	_, err = ReadJointStatesJSON(strings.NewReader("{\"meta\": {}}\nnot json\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "line 2")

	msgs, err := ReadJointStatesJSON(strings.NewReader(""))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, msgs, test.ShouldBeEmpty)
}

func TestTopicKey(t *testing.T) {
	test.That(t, topicKey("/joint_states"), test.ShouldEqual, "joint_states")
	test.That(t, topicKey("/arm/Joint_States"), test.ShouldEqual, "arm_joint_states")
}

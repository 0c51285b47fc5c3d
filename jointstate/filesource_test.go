package jointstate

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"go.viam.com/fk/logging"
)

func TestFileSource(t *testing.T) {
	logger := logging.NewTestLogger(t)
	store := NewStore(testTree(t))
	path := filepath.Join(t.TempDir(), "joints.json")
	test.That(t, os.WriteFile(path, []byte(`{"shoulder": 0.5}`), 0o600), test.ShouldBeNil)

	fs, err := NewFileSource(path, store, logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, fs.Close(), test.ShouldBeNil)
	}()
	v, err := store.Get("shoulder")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, 0.5)

	test.That(t, os.WriteFile(path, []byte(`{"shoulder": -0.5, "elbow": 2}`), 0o600), test.ShouldBeNil)
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		snap := store.Snapshot()
		shoulder, _ := snap.Value("shoulder")
		elbow, _ := snap.Value("elbow")
		test.That(tb, shoulder, test.ShouldEqual, -0.5)
		test.That(tb, elbow, test.ShouldEqual, 2)
	})

	// joints of a larger robot are ignored
	test.That(t, os.WriteFile(path, []byte(`{"shoulder": 0.25, "gripper_finger": 0.01}`), 0o600), test.ShouldBeNil)
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		shoulder, _ := store.Snapshot().Value("shoulder")
		test.That(tb, shoulder, test.ShouldEqual, 0.25)
	})

	// a bad batch is rejected whole
	before := store.Snapshot().Values()
	test.That(t, os.WriteFile(path, []byte(`{"shoulder": 0.9, "camera_mount": 1}`), 0o600), test.ShouldBeNil)
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, fs.Failures(), test.ShouldBeGreaterThan, 0)
	})
	test.That(t, store.Snapshot().Values(), test.ShouldResemble, before)
}

func TestFileSourceBadInitialFile(t *testing.T) {
	logger := logging.NewTestLogger(t)
	store := NewStore(testTree(t))
	dir := t.TempDir()

	_, err := NewFileSource(filepath.Join(dir, "missing.json"), store, logger)
	test.That(t, err, test.ShouldNotBeNil)

	path := filepath.Join(dir, "garbage.json")
	test.That(t, os.WriteFile(path, []byte(`{"shoulder": `), 0o600), test.ShouldBeNil)
	_, err = NewFileSource(path, store, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "parse")
}

package capture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver_AcceptsConnectionString(t *testing.T) {
	d := &Driver{}

	test := func(s string, expected bool) func(*testing.T) {
		return func(t *testing.T) {
			ok, err := d.AcceptsConnectionString(s)
			require.NoError(t, err)
			assert.Equal(t, expected, ok)
		}
	}

	t.Run("location only", test("capture:/tmp/out.sql", true))
	t.Run("with properties", test("capture:/tmp/out.sql?forceFailureOnAllOperations=true;", true))
	t.Run("several properties", test("capture:out.sql?a=1;b=2;", true))
	t.Run("property without semicolon", test("capture:out.sql?a=1", false))
	t.Run("no location", test("capture:", false))
	t.Run("other scheme", test("sqlserver://localhost", false))
	t.Run("scheme not at start", test("xcapture:out.sql", false))

	_, err := d.AcceptsConnectionString("")
	assert.ErrorIs(t, err, ErrNullConnectionString)
}

func TestParseConnectionString(t *testing.T) {
	location, props, ok := ParseConnectionString("capture:out.sql?forceFailureOnAllOperations=true;other=x;")
	require.True(t, ok)
	assert.Equal(t, "out.sql", location)
	assert.Equal(t, Properties{"forceFailureOnAllOperations": "true", "other": "x"}, props)

	location, props, ok = ParseConnectionString("capture:out.sql")
	require.True(t, ok)
	assert.Equal(t, "out.sql", location)
	assert.Empty(t, props)

	_, _, ok = ParseConnectionString("postgres://localhost/db")
	assert.False(t, ok)
}

func TestConnectionString(t *testing.T) {
	assert.Equal(t, "capture:out.sql", ConnectionString("out.sql", nil))
	s := ConnectionString("out.sql", Properties{"b": "2", "a": "1"})
	assert.Equal(t, "capture:out.sql?a=1;b=2;", s)

	location, props, ok := ParseConnectionString(s)
	require.True(t, ok)
	assert.Equal(t, "out.sql", location)
	assert.Equal(t, Properties{"a": "1", "b": "2"}, props)
}

func TestDriver_Connect(t *testing.T) {
	var opened string
	sink := &memSink{}
	d := &Driver{OpenSink: func(location string) (Sink, error) {
		opened = location
		return sink, nil
	}}

	t.Run("connection string properties", func(t *testing.T) {
		c, err := d.Connect("capture:out.sql?forceFailureOnAllOperations=true;", nil)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "out.sql", opened)
		assert.True(t, c.Config().ForceFailureOnAllOperations)
	})

	t.Run("supplied properties win", func(t *testing.T) {
		c, err := d.Connect("capture:out.sql?forceFailureOnAllOperations=true;",
			Properties{PropertyForceFailure: "false"})
		require.NoError(t, err)
		assert.False(t, c.Config().ForceFailureOnAllOperations)

		c, err = d.Connect("capture:out.sql", Properties{PropertyForceFailure: "true"})
		require.NoError(t, err)
		assert.True(t, c.Config().ForceFailureOnAllOperations)
	})

	t.Run("only literal true enables", func(t *testing.T) {
		c, err := d.Connect("capture:out.sql", Properties{PropertyForceFailure: "TRUE"})
		require.NoError(t, err)
		assert.False(t, c.Config().ForceFailureOnAllOperations)
	})

	t.Run("not a capture string", func(t *testing.T) {
		c, err := d.Connect("sqlserver://localhost", nil)
		assert.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("empty string", func(t *testing.T) {
		_, err := d.Connect("", nil)
		assert.ErrorIs(t, err, ErrNullConnectionString)
	})
}

func TestDriver_ConnectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sql")
	d := &Driver{}

	c, err := d.Connect("capture:"+path, nil)
	require.NoError(t, err)
	_, err = c.Execute("CREATE TABLE a (id int);")
	require.NoError(t, err)
	_, err = c.Execute("GRANT SELECT ON a TO b;")
	require.NoError(t, err)

	// auto commit flushes, so the file is complete before Close
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE a (id int);\nGRANT SELECT ON a TO b;", string(data))
	require.NoError(t, c.Close())
}

func TestDriver_ConnectOpenError(t *testing.T) {
	d := &Driver{}
	_, err := d.Connect("capture:"+filepath.Join(t.TempDir(), "missing", "out.sql"), nil)
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	assert.Equal(t, Config{}, ConfigFromProperties(nil))
	cfg := ConfigFromProperties(Properties{PropertyForceFailure: "true"})
	assert.True(t, cfg.ForceFailureOnAllOperations)
	assert.Equal(t, Properties{PropertyForceFailure: "true"}, cfg.Properties())
	assert.Equal(t, "forceFailureOnAllOperations=true", cfg.String())
}

package sqlparser

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/fstest"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func split(t *testing.T, input string, opts ...Option) []string {
	t.Helper()
	result, err := Split(strings.NewReader(input), opts...)
	require.NoError(t, err)
	return result
}

func TestSplit(t *testing.T) {
	test := func(input string, expected ...string) func(*testing.T) {
		return func(t *testing.T) {
			assert.Equal(t, expected, split(t, input))
		}
	}

	t.Run("empty input", test(""))
	t.Run("whitespace only", test("  \n\t \r\n"))
	t.Run("no delimiter", test("  SELECT 1\n", "SELECT 1"))
	t.Run("terminators", test("SELECT 1; SELECT 2;\nSELECT 3", "SELECT 1;", "SELECT 2;", "SELECT 3"))
	t.Run("terminator in single quotes",
		test("INSERT INTO t VALUES ('a;b');", "INSERT INTO t VALUES ('a;b');"))
	t.Run("terminator in double quotes",
		test(`SELECT "a;b" FROM t; SELECT 2;`, `SELECT "a;b" FROM t;`, "SELECT 2;"))
	t.Run("doubled single quotes",
		test("SELECT 'it''s;'; SELECT 2;", "SELECT 'it''s;';", "SELECT 2;"))
	t.Run("escaped single quote",
		test(`SELECT 'it\'s;' ;`, `SELECT 'it\'s;' ;`))
	t.Run("escaped double quote",
		test(`SELECT "a\";b";`, `SELECT "a\";b";`))
	t.Run("single quote inside double quotes",
		test(`SELECT "it's;"; SELECT 2;`, `SELECT "it's;";`, "SELECT 2;"))
	t.Run("unterminated quote swallows the rest",
		test("SELECT 'abc;\nX;", "SELECT 'abc;\nX;"))

	t.Run("line comment is elided", test("-- a;b\nX;", "X;"))
	t.Run("line comment after code", test("SELECT 1 -- trailing; comment\n;", "SELECT 1 ;"))
	t.Run("line comment at end of input", test("SELECT 1; -- done;", "SELECT 1;"))
	t.Run("line comment marker in quotes", test("SELECT '--';", "SELECT '--';"))
	t.Run("single dash is kept", test("SELECT 3-1;", "SELECT 3-1;"))

	t.Run("block comment is elided", test("/* a;\nb */X;", "X;"))
	t.Run("block comment within statement", test("SELECT /* c; */ 1;", "SELECT  1;"))
	t.Run("block comment marker in quotes", test("SELECT '/* x; */';", "SELECT '/* x; */';"))
	t.Run("quotes in comments do not toggle", test("/* it's */ SELECT 1; -- it's\nSELECT 2;", "SELECT 1;", "SELECT 2;"))
	t.Run("division is kept", test("SELECT 4/2;", "SELECT 4/2;"))

	t.Run("keyword", test("CREATE TABLE t (c VARCHAR(10))\nGO\n", "CREATE TABLE t (c VARCHAR(10))"))
	t.Run("keyword on same line", test("SELECT 1 GO\nSELECT 2 GO\n", "SELECT 1", "SELECT 2"))
	t.Run("keyword followed by tab", test("SELECT 1\nGO\tSELECT 2", "SELECT 1", "SELECT 2"))
	t.Run("keyword is case sensitive", test("SELECT 1\ngo\n", "SELECT 1\ngo"))
	t.Run("keyword needs trailing whitespace", test("SELECT 1\nGO", "SELECT 1\nGO"))
	t.Run("keyword inside word", test("SELECT ONGOING\nX;", "SELECT ONGOING\nX;"))
	t.Run("keyword after underscore", test("SELECT A_GO\nX;", "SELECT A_GO\nX;"))
	t.Run("keyword after digit", test("SELECT 1GO\nX;", "SELECT 1GO\nX;"))
	t.Run("keyword after non-ascii letter", test("SELECT ÆGO\nX;", "SELECT ÆGO\nX;"))
	t.Run("keyword after punctuation", test("SELECT (1)GO\nX;", "SELECT (1)", "X;"))
	t.Run("keyword prefix", test("SELECT GOTO\nX;", "SELECT GOTO\nX;"))
	t.Run("keyword in quotes", test("SELECT 'a GO b';", "SELECT 'a GO b';"))
	t.Run("keyword in line comment", test("-- commentGO\nSELECT 1;", "SELECT 1;"))
	t.Run("keyword in block comment", test("/* x\nGO\n*/SELECT 1;", "SELECT 1;"))
	t.Run("keyword after terminator gives no empty statement",
		test("A;\nGO\nB;\nGO\n", "A;", "B;"))
	t.Run("keyword alone", test("GO\nGO\n"))
}

func TestSplit_CommentsAndStrings(t *testing.T) {
	components := []string{
		"CREATE DATABASE test;",
		"-- This is a test comment;\n",
		"/* This is a test comment\n that spans multiple linesGO\n*/",
		"CREATE TABLE test.test_table (\n column_1 INT NOT NULL PRIMARY KEY,\n column_2 VARCHAR(100)\n) GO",
		"-- This is another test commentGO\n",
		"/* This is a test comment\n that spans multiple lines;\n*/",
		`INSERT INTO test.test_table (column_1, column_2) VALUES (1, 'f;oo'), (2, "foGOo");`,
	}

	statements := split(t, strings.Join(components, "\n"))

	assert.Equal(t, []string{
		"CREATE DATABASE test;",
		"CREATE TABLE test.test_table (\n column_1 INT NOT NULL PRIMARY KEY,\n column_2 VARCHAR(100)\n)",
		`INSERT INTO test.test_table (column_1, column_2) VALUES (1, 'f;oo'), (2, "foGOo");`,
	}, statements)
}

func TestSplit_Options(t *testing.T) {
	t.Run("custom terminator", func(t *testing.T) {
		assert.Equal(t,
			[]string{"SELECT 1$", "SELECT ';$'$"},
			split(t, "SELECT 1$ SELECT ';$'$", WithTerminator('$')))
	})
	t.Run("custom keyword", func(t *testing.T) {
		assert.Equal(t,
			[]string{"SELECT 1", "SELECT 2\nGO"},
			split(t, "SELECT 1\nBATCH\nSELECT 2\nGO\n", WithKeyword("BATCH")))
	})
	t.Run("keyword disabled", func(t *testing.T) {
		assert.Equal(t,
			[]string{"SELECT 1\nGO\nSELECT 2"},
			split(t, "SELECT 1\nGO\nSELECT 2\n", WithKeyword("")))
	})
}

func TestScanner_Line(t *testing.T) {
	s := NewScanner(strings.NewReader("-- header\nCREATE TABLE a (id int);\n\n/* x */ INSERT INTO a\nVALUES (1);\nGO\nSELECT 1\nGO\n"))

	var lines []int
	for s.Next() {
		lines = append(lines, s.Line())
	}
	require.NoError(t, s.Err())
	assert.Equal(t, []int{2, 4, 7}, lines)
}

func TestScanner_ReadError(t *testing.T) {
	boom := errors.New("boom")
	s := NewScanner(io.MultiReader(strings.NewReader("SELECT 1; SELECT"), iotest.ErrReader(boom)))

	require.True(t, s.Next())
	assert.Equal(t, "SELECT 1;", s.Statement())
	assert.False(t, s.Next())
	assert.ErrorIs(t, s.Err(), boom)
	// the scanner does not restart
	assert.False(t, s.Next())
}

func TestScanner_NotRestartable(t *testing.T) {
	s := NewScanner(strings.NewReader("SELECT 1"))
	require.True(t, s.Next())
	assert.Equal(t, "SELECT 1", s.Statement())
	assert.False(t, s.Next())
	assert.False(t, s.Next())
	assert.NoError(t, s.Err())
}

func TestSplitFile(t *testing.T) {
	fsys := fstest.MapFS{
		"primer.sql": &fstest.MapFile{Data: []byte("CREATE TABLE a (id int)\nGO\n\nINSERT INTO a VALUES (1);\n")},
	}

	statements, err := SplitFile(fsys, "primer.sql")
	require.NoError(t, err)
	assert.Equal(t, []PosString{
		{Pos: Pos{File: "primer.sql", Line: 1}, Value: "CREATE TABLE a (id int)"},
		{Pos: Pos{File: "primer.sql", Line: 4}, Value: "INSERT INTO a VALUES (1);"},
	}, statements)
	assert.Equal(t, "primer.sql:4", statements[1].Pos.String())

	_, err = SplitFile(fsys, "missing.sql")
	assert.Error(t, err)
}

func TestScanState_String(t *testing.T) {
	assert.Equal(t, "normal", stateNormal.String())
	assert.Equal(t, "block-comment", stateBlockComment.String())
	assert.True(t, stateLineComment.inComment())
	assert.False(t, stateDoubleQuote.inComment())
}

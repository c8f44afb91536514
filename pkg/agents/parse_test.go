package agents

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/agent-protocol/a2a-agents/pkg/a2a"
)

func TestParseOperands(t *testing.T) {
	tests := []struct {
		input string
		left  float64
		right float64
	}{
		{"5,2", 5, 2},
		{" 5 , 2 ", 5, 2},
		{"-1.5,+2", -1.5, 2},
		{".5,5.", 0.5, 5},
		{"1e3,1E-3", 1000, 0.001},
		{"Infinity,-INF", math.Inf(1), math.Inf(-1)},
		{"1_000,2", 1000, 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ops, err := ParseOperands(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.left, ops.Left)
			assert.Equal(t, tt.right, ops.Right)
		})
	}
}

func TestParseOperands_NaN(t *testing.T) {
	for _, input := range []string{"nan,1", "NaN,1", "-nan,1", "+NAN,1"} {
		ops, err := ParseOperands(input)
		require.NoError(t, err, input)
		assert.True(t, math.IsNaN(ops.Left), input)
	}

	for _, input := range []string{"--nan,1", "+-nan,1", "nann,1"} {
		_, err := ParseOperands(input)
		assert.Error(t, err, input)
	}
}

func TestParseOperands_ErrorsAreParseErrors(t *testing.T) {
	for _, input := range []string{"", "1", "1,2,3", "a,1", "1,b", "1 2,3", "0x1p-2,1", "1__000,2", "_1,2"} {
		_, err := ParseOperands(input)
		require.Error(t, err, input)

		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr), "input %q: %T", input, err)
	}
}

func TestParseOperands_ErrorText(t *testing.T) {
	_, err := ParseOperands("5,2,3")
	assert.EqualError(t, err, "Input text must contain exactly two numbers separated by a comma.")

	_, err = ParseOperands(" abc ,2")
	assert.EqualError(t, err, "could not convert string to float: 'abc'")
}

func TestParseOperands_ErrorQuoting(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"it's,2", `could not convert string to float: "it's"`},
		{`say "hi",2`, `could not convert string to float: 'say "hi"'`},
		{`it's "x",2`, `could not convert string to float: 'it\'s "x"'`},
		{`a\b,2`, `could not convert string to float: 'a\\b'`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseOperands(tt.input)
			assert.EqualError(t, err, tt.want)
		})
	}
}

// Any pair of non-NaN floats written in shortest form round-trips through
// ParseOperands.
func TestParseOperands_RoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		notNaN := func(f float64) bool { return !math.IsNaN(f) }
		a := rapid.Float64().Filter(notNaN).Draw(t, "a")
		b := rapid.Float64().Filter(notNaN).Draw(t, "b")

		input := strconv.FormatFloat(a, 'g', -1, 64) + "," + strconv.FormatFloat(b, 'g', -1, 64)
		ops, err := ParseOperands(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if ops.Left != a || ops.Right != b {
			t.Fatalf("parse %q: got %v,%v", input, ops.Left, ops.Right)
		}
	})
}

// The add agent's reply to any well-formed "a,b" ends with the float64 sum.
func TestAddAgent_SumProperty(t *testing.T) {
	agent := NewAddAgent(nil)

	rapid.Check(t, func(t *rapid.T) {
		finite := func(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
		a := rapid.Float64().Filter(finite).Draw(t, "a")
		b := rapid.Float64().Filter(finite).Draw(t, "b")

		input := strconv.FormatFloat(a, 'g', -1, 64) + "," + strconv.FormatFloat(b, 'g', -1, 64)
		reply := agent.HandleMessage(context.Background(), a2a.NewMessage(a2a.RoleUser, a2a.TextContent(input)))
		if reply == nil || reply.Content.Type != a2a.ContentTypeText {
			t.Fatalf("input %q: non-text reply %+v", input, reply)
		}

		if got, want := reply.Content.Text, " is: "+FormatNumber(a+b); !strings.HasSuffix(got, want) {
			t.Fatalf("input %q: reply %q does not end with %q", input, got, want)
		}
	})
}

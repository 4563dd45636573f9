package cmd

import (
	"testing"

	"github.com/hlvm-dev/hql/internal/ir"
	"github.com/hlvm-dev/hql/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSONValueTagsNodeType(t *testing.T) {
	n := &ir.Identifier{NodeBase: ir.NodeBase{Position: token.Position{File: "a.hql", Line: 1, Column: 2}}, Name: "x"}
	v := toJSONValue(n)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Identifier", m["type"])
	assert.Equal(t, "x", m["name"])
	assert.Equal(t, "a.hql:1:2", m["pos"])
}

func TestToJSONValueHandlesNilAndSlices(t *testing.T) {
	assert.Nil(t, toJSONValue(nil))

	body := []ir.Node{
		&ir.NumericLiteral{Value: 1},
		&ir.NumericLiteral{Value: 2},
	}
	v := toJSONValue(body)
	list, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, "NumericLiteral", first["type"])
	assert.Equal(t, float64(1), first["value"])
}

package calculator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const toolList = `[
  {"id": 1, "name": "BMI Calculator", "category": "Health", "type": "bmi", "slug": "bmi-calculator"},
  {"id": "loan-1", "name": "Loan Calculator", "category": "Finance", "type": "loan"},
  {"id": 3, "name": "Adder", "category": "Everyday", "extra": true}
]`

func TestDecodeTools(t *testing.T) {
	tools, err := DecodeTools([]byte(toolList))
	require.NoError(t, err)
	require.Len(t, tools, 3)
	require.Equal(t, ToolID("1"), tools[0].ID)
	require.Equal(t, ToolID("loan-1"), tools[1].ID)
	require.Equal(t, KindSum, tools[2].Kind())

	_, err = DecodeTools([]byte(`{"id":1}`))
	require.Error(t, err)

	_, err = DecodeTools([]byte(`[{"id": true}]`))
	require.Error(t, err)
}

func TestSelectTool(t *testing.T) {
	tools, err := DecodeTools([]byte(toolList))
	require.NoError(t, err)

	got, err := SelectTool(tools, "1")
	require.NoError(t, err)
	require.Equal(t, "BMI Calculator", got.Name)

	got, err = SelectTool(tools, " loan-1 ")
	require.NoError(t, err)
	require.Equal(t, KindLoan, got.Kind())

	_, err = SelectTool(tools, "99")
	require.ErrorIs(t, err, ErrToolNotFound)

	_, err = SelectTool(nil, "1")
	require.ErrorIs(t, err, ErrToolNotFound)
}

func TestFilter(t *testing.T) {
	tools, err := DecodeTools([]byte(toolList))
	require.NoError(t, err)

	require.Len(t, Filter(tools, ""), 3)
	require.Len(t, Filter(tools, "calc"), 2)
	require.Len(t, Filter(tools, "FINANCE"), 1)
	require.Empty(t, Filter(tools, "zzz"))
	require.True(t, Matches("BMI Calculator Health", "bmi c"))
}

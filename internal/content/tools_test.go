package content

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

const sampleTools = `[
  {"id": 1, "name": "BMI Calculator", "category": "Health", "type": "bmi", "description": "Body mass index", "icon": "scale"},
  {"id": "age", "name": "Age Calculator", "category": "Everyday", "type": "age"},
  {"id": 3, "name": "Loan Calculator", "category": "Finance", "type": "loan", "popular": true},
  {"id": 4, "name": "Calorie Counter", "category": "Health", "type": "sum", "rank": 2}
]`

func storeWithTools(t *testing.T, body string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tools.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return NewStore(Options{ToolsPath: path})
}

func TestLoadTools(t *testing.T) {
	tools, err := storeWithTools(t, sampleTools).LoadTools(t.Context())
	require.NoError(t, err)
	require.Len(t, tools, 4)

	require.Equal(t, ToolID("1"), tools[0].ID)
	require.Equal(t, ToolID("age"), tools[1].ID)
	require.Equal(t, "bmi", tools[0].Type)
	require.Equal(t, "scale", tools[0].Field("icon"))
	require.Equal(t, true, tools[2].Field("popular"))
	require.Equal(t, json.Number("2"), tools[3].Field("rank"))
	require.Nil(t, tools[1].Fields)
	require.Equal(t, "bmi-calculator", tools[0].Slug())
}

func TestLoadTools_Missing(t *testing.T) {
	s := NewStore(Options{ToolsPath: filepath.Join(t.TempDir(), "absent.json")})
	_, err := s.LoadTools(t.Context())
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryContent))
}

func TestLoadTools_Malformed(t *testing.T) {
	_, err := storeWithTools(t, `[{"id": 1, "name": "x"`).LoadTools(t.Context())
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryContent))

	_, err = storeWithTools(t, `{"not": "an array"}`).LoadTools(t.Context())
	require.Error(t, err)
}

func TestLoadTools_Validation(t *testing.T) {
	cases := map[string]string{
		"missing name":     `[{"id": 1, "category": "Health"}]`,
		"missing category": `[{"id": 1, "name": "BMI"}]`,
		"duplicate id":     `[{"id": 1, "name": "A", "category": "c"}, {"id": "1", "name": "B", "category": "c"}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := storeWithTools(t, body).LoadTools(t.Context())
			require.Error(t, err)
			require.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
		})
	}
}

func TestLoadTools_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := storeWithTools(t, sampleTools).LoadTools(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestToolMarshalJSON_Flat(t *testing.T) {
	tools, err := storeWithTools(t, sampleTools).LoadTools(t.Context())
	require.NoError(t, err)

	out, err := json.Marshal(tools[0])
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	require.Equal(t, "1", m["id"])
	require.Equal(t, "BMI Calculator", m["name"])
	require.Equal(t, "scale", m["icon"])
}

func TestCategories_FirstSeenOrder(t *testing.T) {
	tools, err := storeWithTools(t, sampleTools).LoadTools(t.Context())
	require.NoError(t, err)

	require.Equal(t, []Category{
		{Name: "Health", Slug: "health"},
		{Name: "Everyday", Slug: "everyday"},
		{Name: "Finance", Slug: "finance"},
	}, Categories(tools))

	health := ToolsInCategory(tools, "Health")
	require.Len(t, health, 2)
	require.Equal(t, "BMI Calculator", health[0].Name)
	require.Equal(t, "Calorie Counter", health[1].Name)
	require.Empty(t, ToolsInCategory(tools, "Nope"))
}

func TestFindTool(t *testing.T) {
	tools, err := storeWithTools(t, sampleTools).LoadTools(t.Context())
	require.NoError(t, err)

	got, ok := FindTool(tools, "3")
	require.True(t, ok)
	require.Equal(t, "Loan Calculator", got.Name)

	_, ok = FindTool(tools, "99")
	require.False(t, ok)
}

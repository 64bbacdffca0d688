package catalog

import (
	"errors"
	"testing"

	"github.com/softrune/itemworld/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader(items, maps []map[string]any) JSONLoader {
	return func(tableName string) ([]map[string]any, error) {
		switch tableName {
		case "tbitem":
			return items, nil
		case "tbmap":
			return maps, nil
		}
		return nil, errors.New("unknown table " + tableName)
	}
}

func validMaps() []map[string]any {
	return []map[string]any{
		{"name": "town", "width": float64(20), "height": float64(10)},
	}
}

func TestLoadPreservesInsertionOrder(t *testing.T) {
	items := []map[string]any{
		{"name": "sword", "base_class": "generic", "exchangeable": true, "droppable": true, "show": true},
		{"name": "potion", "base_class": "consumable", "usable": true, "show": true},
		{"name": "coin", "base_class": "currency", "exchangeable": true},
	}

	c, err := LoadWith(testLoader(items, validMaps()), logger.NewNoop())
	require.NoError(t, err)

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, "sword", list[0].Name)
	assert.Equal(t, "potion", list[1].Name)
	assert.Equal(t, "coin", list[2].Name)
}

func TestLoadResolvesBehaviorAtLoadTime(t *testing.T) {
	items := []map[string]any{
		{"name": "potion", "base_class": "consumable", "usable": true, "heal": float64(50)},
	}

	c, err := LoadWith(testLoader(items, validMaps()), logger.NewNoop())
	require.NoError(t, err)

	def, ok := c.Get("potion")
	require.True(t, ok)
	assert.NotNil(t, def.Behavior())
	assert.True(t, def.Usable)
	assert.Equal(t, float64(50), def.Properties["heal"])
}

func TestLoadFailsOnUnknownBaseClass(t *testing.T) {
	items := []map[string]any{
		{"name": "widget", "base_class": "no_such_class"},
	}

	_, err := LoadWith(testLoader(items, validMaps()), logger.NewNoop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownBaseClass)
}

func TestLoadFailsOnDuplicateItem(t *testing.T) {
	items := []map[string]any{
		{"name": "sword", "base_class": "generic"},
		{"name": "sword", "base_class": "generic"},
	}

	_, err := LoadWith(testLoader(items, validMaps()), logger.NewNoop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateItem)
}

func TestLoadFailsOnMissingFields(t *testing.T) {
	cases := []struct {
		name  string
		items []map[string]any
		maps  []map[string]any
	}{
		{"missing item name", []map[string]any{{"base_class": "generic"}}, validMaps()},
		{"missing base class", []map[string]any{{"name": "sword"}}, validMaps()},
		{"missing map size", []map[string]any{}, []map[string]any{{"name": "town"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadWith(testLoader(tc.items, tc.maps), logger.NewNoop())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestGetUnknownItem(t *testing.T) {
	c, err := LoadWith(testLoader(nil, validMaps()), logger.NewNoop())
	require.NoError(t, err)

	_, ok := c.Get("nothing")
	assert.False(t, ok)
}

func TestGetMap(t *testing.T) {
	c, err := LoadWith(testLoader(nil, validMaps()), logger.NewNoop())
	require.NoError(t, err)

	m, ok := c.GetMap("town")
	require.True(t, ok)
	assert.Equal(t, 20, m.Width)
	assert.Equal(t, 10, m.Height)
}

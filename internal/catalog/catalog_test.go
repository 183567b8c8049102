package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicehs/internal"
)

func TestResolveColumns(t *testing.T) {
	cols := ResolveColumns([]string{"Description", "HS_Code", "Unit (pcs)"})
	require.NotNil(t, cols.Description)
	require.NotNil(t, cols.HSCode)
	require.NotNil(t, cols.Unit)
	assert.Equal(t, "description", cols.Description.Name)
	assert.Equal(t, "hs_code", cols.HSCode.Name)
	assert.Equal(t, "unit (pcs)", cols.Unit.Name)
	assert.Equal(t, 2, cols.Unit.Index)
}

func TestResolveColumnsFirstMatchWins(t *testing.T) {
	cols := ResolveColumns([]string{"  Short Desc ", "HS Chapter", "Long Description", "HS Code", "Unit", "Unit Price"})
	require.NotNil(t, cols.Description)
	require.NotNil(t, cols.HSCode)
	require.NotNil(t, cols.Unit)
	assert.Equal(t, Column{Index: 0, Name: "short desc"}, *cols.Description)
	assert.Equal(t, Column{Index: 1, Name: "hs chapter"}, *cols.HSCode)
	assert.Equal(t, Column{Index: 4, Name: "unit"}, *cols.Unit)
}

func TestResolveColumnsOptionalUnit(t *testing.T) {
	cols := ResolveColumns([]string{"desc", "hs"})
	assert.NotNil(t, cols.Description)
	assert.NotNil(t, cols.HSCode)
	assert.Nil(t, cols.Unit)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(Table{Header: []string{"Item Name", "Code"}, Rows: [][]string{{"Elbow", "3917"}}})
	require.Error(t, err)

	var malformed *MalformedCatalogError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, []Role{RoleDescription, RoleHSCode}, malformed.Missing)
	assert.Contains(t, err.Error(), "description or hs code")
	assert.Contains(t, err.Error(), "item name, code")
}

func TestLoadMissingOnlyCode(t *testing.T) {
	_, err := Load(Table{Header: []string{"Description", "Tariff"}})
	var malformed *MalformedCatalogError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, []Role{RoleHSCode}, malformed.Missing)
}

func TestLoadProjectsRows(t *testing.T) {
	table := Table{
		Header: []string{"No", "Description", "HS Code", "Unit"},
		Rows: [][]string{
			{"1", "PVC Elbow", "3917.40", "PCS"},
			{"2", "Gate Valve", "8481.80"},
			{"3", "", "7307.19", "KG"},
			{"4", "Pipe clamp", " "},
		},
	}
	cat, err := Load(table)
	require.NoError(t, err)
	assert.Equal(t, []internal.CatalogEntry{
		{Description: "PVC Elbow", HSCode: "3917.40", Unit: "PCS"},
		{Description: "Gate Valve", HSCode: "8481.80", Unit: ""},
	}, cat.Entries)
	assert.Equal(t, []string{"pvc elbow", "gate valve"}, cat.Descriptions)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, []int{0, 1}, cat.Rows)
}

func TestLoadKeepsSourceRows(t *testing.T) {
	cat, err := Load(Table{
		Header: []string{"Description", "HS Code"},
		Rows: [][]string{
			{"", "7307.19"},
			{"Tee", ""},
			{"Union", "3917.40"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())
	assert.Equal(t, 2, cat.Row(0))
	assert.Equal(t, -1, cat.Row(1))
}

func TestLoadWithoutUnitColumn(t *testing.T) {
	cat, err := Load(Table{
		Header: []string{"DESC", "HS"},
		Rows:   [][]string{{"Union", "3917.40"}},
	})
	require.NoError(t, err)
	assert.Nil(t, cat.Columns.Unit)
	assert.Equal(t, "", cat.Entries[0].Unit)
}

func TestLoadDeterministic(t *testing.T) {
	table := Table{
		Header: []string{"Description", "HS Description", "HS Code"},
		Rows:   [][]string{{"Tee", "Fittings of plastics", "3917.40"}},
	}
	first, err := Load(table)
	require.NoError(t, err)
	second, err := Load(table)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// "hs description" holds both "desc" and "hs"; the leftmost header still wins each role.
	assert.Equal(t, 0, first.Columns.Description.Index)
	assert.Equal(t, 1, first.Columns.HSCode.Index)
}

func TestFromEntriesEmpty(t *testing.T) {
	cat := FromEntries(nil)
	assert.Equal(t, 0, cat.Len())
	assert.Empty(t, cat.Descriptions)
}

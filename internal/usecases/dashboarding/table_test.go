package dashboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

func tableOf(t *testing.T, widget *domain.Widget) *domain.TableData {
	t.Helper()
	require.NotNil(t, widget)
	table, ok := widget.Data.(*domain.TableData)
	require.True(t, ok)
	return table
}

func TestStore_TableOperations(t *testing.T) {
	store, emitted := newTestStore(t, emptyLayout())
	widget, err := store.AddWidget(domain.WidgetTypeTable)
	require.NoError(t, err)
	id := widget.ID

	widget, err = store.AddTableRow(id)
	require.NoError(t, err)
	assert.Len(t, tableOf(t, widget).Rows, 2)

	widget, err = store.AddTableColumn(id)
	require.NoError(t, err)
	table := tableOf(t, widget)
	assert.Equal(t, []string{"Column 1", "Column 2", "Column 3", "Column 4"}, table.Headers)
	for _, row := range table.Rows {
		assert.Len(t, row, 4)
	}

	widget, err = store.UpdateTableHeader(id, 0, "Produto")
	require.NoError(t, err)
	assert.Equal(t, "Produto", tableOf(t, widget).Headers[0])

	widget, err = store.UpdateTableCell(id, 1, 3, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", tableOf(t, widget).Rows[1][3])

	widget, err = store.RemoveTableColumn(id, 1)
	require.NoError(t, err)
	table = tableOf(t, widget)
	assert.Equal(t, []string{"Produto", "Column 3", "Column 4"}, table.Headers)
	assert.Equal(t, []string{"", "", "42"}, table.Rows[1])

	widget, err = store.RemoveTableRow(id, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"", "", "42"}}, tableOf(t, widget).Rows)

	assert.Len(t, *emitted, 7)
}

func TestStore_TableOperationErrors(t *testing.T) {
	store, _ := newTestStore(t, emptyLayout())
	table, err := store.AddWidget(domain.WidgetTypeTable)
	require.NoError(t, err)
	text, err := store.AddWidget(domain.WidgetTypeText)
	require.NoError(t, err)

	_, err = store.RemoveTableRow(table.ID, 5)
	assert.ErrorIs(t, err, ErrInvalidTableIndex)

	_, err = store.RemoveTableColumn(table.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidTableIndex)

	_, err = store.UpdateTableCell(table.ID, 0, 3, "x")
	assert.ErrorIs(t, err, ErrInvalidTableIndex)

	_, err = store.UpdateTableHeader(table.ID, 3, "x")
	assert.ErrorIs(t, err, ErrInvalidTableIndex)

	_, err = store.AddTableRow(text.ID)
	assert.ErrorIs(t, err, ErrNotTableWidget)

	widget, err := store.AddTableRow("missing")
	assert.NoError(t, err)
	assert.Nil(t, widget)

	assert.Equal(t, table, store.Widget(table.ID))
}

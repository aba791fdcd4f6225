package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumnType(t *testing.T) {
	typ, err := ParseColumnType(" Formula ")
	require.NoError(t, err)
	assert.Equal(t, ColumnFormula, typ)

	_, err = ParseColumnType("date")
	assert.ErrorIs(t, err, ErrInvalidColumnType)
}

func TestNewColumn(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("formula column", func(t *testing.T) {
		c, err := NewColumn("c1", "price15", ColumnFormula, " round({basePrice} * 1.15) ", true, 3, now)
		require.NoError(t, err)
		assert.Equal(t, "round({basePrice} * 1.15)", c.Formula())
		assert.False(t, c.Editable(), "formula columns are never editable")
		assert.Equal(t, []string{"basePrice"}, c.References())
		assert.NotNil(t, c.Expr())
		require.Len(t, c.DomainEvents(), 1)
		assert.Equal(t, EventColumnCreated, c.DomainEvents()[0].EventType())
		assert.Empty(t, c.PreviousName())
	})

	t.Run("stored column", func(t *testing.T) {
		c, err := NewColumn("c1", "size", ColumnText, "", true, 1, now)
		require.NoError(t, err)
		assert.True(t, c.Editable())
		assert.Nil(t, c.References())
	})

	tests := []struct {
		name    string
		colName string
		typ     ColumnType
		formula string
		wantErr error
	}{
		{"empty name", " ", ColumnText, "", ErrInvalidColumnName},
		{"name with braces", "{x}", ColumnText, "", ErrInvalidColumnName},
		{"unknown type", "x", ColumnType("date"), "", ErrInvalidColumnType},
		{"formula missing", "x", ColumnFormula, "", ErrFormulaRequired},
		{"formula on stored column", "x", ColumnNumber, "{a} + 1", ErrUnexpectedFormula},
		{"formula does not compile", "x", ColumnFormula, "{a} +", ErrInvalidFormula},
		{"formula calls unknown function", "x", ColumnFormula, "sqrt({a})", ErrInvalidFormula},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewColumn("c1", tt.colName, tt.typ, tt.formula, false, 1, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestColumn_Updates(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	load := func() *Column {
		return ReconstructColumn("c1", "size", ColumnText, "", true, 4, now, now)
	}

	t.Run("rename tracks previous name", func(t *testing.T) {
		c := load()
		require.NoError(t, c.Rename("fit"))
		require.NoError(t, c.Rename("cut"))
		assert.Equal(t, "size", c.PreviousName())

		require.NoError(t, c.Rename("size"))
		assert.Empty(t, c.PreviousName())
	})

	t.Run("switching to formula makes the column read-only", func(t *testing.T) {
		c := load()
		require.NoError(t, c.SetType(ColumnFormula))
		assert.False(t, c.Editable())
		assert.ErrorIs(t, c.Validate(), ErrFormulaRequired)

		require.NoError(t, c.SetFormula("{basePrice} * 2"))
		require.NoError(t, c.Validate())

		c.SetEditable(true)
		assert.False(t, c.Editable())
	})

	t.Run("leaving formula drops the formula", func(t *testing.T) {
		c := ReconstructColumn("c1", "p10", ColumnFormula, "{basePrice} + 10", false, 3, now, now)
		require.NoError(t, c.SetType(ColumnNumber))
		assert.Empty(t, c.Formula())
		assert.Nil(t, c.Expr())
		assert.True(t, c.Changes().Dirty(ColumnFieldFormula))
	})

	t.Run("formula on stored column is rejected", func(t *testing.T) {
		c := load()
		assert.ErrorIs(t, c.SetFormula("1"), ErrUnexpectedFormula)
	})

	t.Run("mark updated records previous name", func(t *testing.T) {
		c := load()
		require.NoError(t, c.Rename("fit"))
		c.MarkUpdated(now.Add(time.Hour))

		require.Len(t, c.DomainEvents(), 1)
		ev, ok := c.DomainEvents()[0].(*ColumnUpdatedEvent)
		require.True(t, ok)
		assert.Equal(t, "size", ev.PreviousName)
		assert.Equal(t, "fit", ev.Name)
		assert.Equal(t, []string{ColumnFieldName}, ev.ChangedFields)
		assert.Equal(t, now.Add(time.Hour), c.UpdatedAt())
	})

	t.Run("mark updated without changes is a no-op", func(t *testing.T) {
		c := load()
		c.SetPosition(4)
		c.MarkUpdated(now.Add(time.Hour))
		assert.Empty(t, c.DomainEvents())
	})
}

func TestReconstructColumn_BrokenFormula(t *testing.T) {
	c := ReconstructColumn("c1", "bad", ColumnFormula, "1 +", false, 1, time.Now(), time.Now())
	assert.Nil(t, c.Expr())
	assert.Equal(t, "1 +", c.Formula())
}

func TestNewDefaultColumns(t *testing.T) {
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("col-%d", n)
	}

	cols, err := NewDefaultColumns(newID, time.Now())
	require.NoError(t, err)
	require.Len(t, cols, 6)

	names := make([]string, 0, len(cols))
	for i, c := range cols {
		names = append(names, c.Name())
		assert.Equal(t, int64(i+1), c.Position())
		assert.Equal(t, !c.IsFormula(), c.Editable())
	}
	assert.Equal(t, []string{"number", "basePrice", "p10", "price15", "price20", "price25"}, names)
	assert.Equal(t, ColumnText, cols[0].Type())
	assert.Equal(t, ColumnNumber, cols[1].Type())
	assert.Equal(t, "round({basePrice} * 1.20)", cols[4].Formula())

	schema := NewSchema(cols)
	assert.False(t, schema.Plan().HasCycles())
}

func TestColumn_CoerceValue(t *testing.T) {
	now := time.Now()
	text := ReconstructColumn("c1", "size", ColumnText, "", true, 1, now, now)
	number := ReconstructColumn("c2", "stock", ColumnNumber, "", true, 2, now, now)
	calc := ReconstructColumn("c3", "p10", ColumnFormula, "{basePrice} + 10", false, 3, now, now)

	v, err := text.CoerceValue("XL")
	require.NoError(t, err)
	assert.Equal(t, "XL", v)
	_, err = text.CoerceValue(12)
	assert.ErrorIs(t, err, ErrInvalidFieldValue)

	v, err = number.CoerceValue("12.5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)
	_, err = number.CoerceValue("many")
	assert.ErrorIs(t, err, ErrInvalidFieldValue)

	v, err = number.CoerceValue(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = calc.CoerceValue(1)
	assert.ErrorIs(t, err, ErrReadOnlyField)
}

package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"paladar-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenEmptyBackendCreatesDefaultDocument(t *testing.T) {
	s, err := Open(NewMemoryBackend())
	require.NoError(t, err)

	s.View(func(d *models.Document) {
		assert.Empty(t, d.Units)
		assert.Equal(t, models.MissingConversionAssumeUnity, d.Settings.OnMissingConversion)
		assert.Equal(t, "CUP", d.Settings.CurrencySymbol)
	})
}

func TestMutatePersistsWholeDocument(t *testing.T) {
	backend := NewMemoryBackend()
	s, err := Open(backend)
	require.NoError(t, err)

	require.NoError(t, s.Mutate(func(d *models.Document) error {
		d.Units = append(d.Units, models.Unit{ID: "u1", Name: "kg"})
		return nil
	}))

	// Reabrir sobre el mismo backend ve lo guardado.
	s2, err := Open(backend)
	require.NoError(t, err)
	s2.View(func(d *models.Document) {
		require.Len(t, d.Units, 1)
		assert.Equal(t, "kg", d.Units[0].Name)
	})
}

func TestMutateErrorSkipsSave(t *testing.T) {
	backend := NewMemoryBackend()
	s, err := Open(backend)
	require.NoError(t, err)

	wantErr := assert.AnError
	err = s.Mutate(func(d *models.Document) error {
		d.Units = append(d.Units, models.Unit{ID: "u1", Name: "kg"})
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	_, found, _ := backend.Load()
	assert.False(t, found)
}

func TestSaveFailureLeavesMemoryDivergent(t *testing.T) {
	backend := NewMemoryBackend()
	s, err := Open(backend)
	require.NoError(t, err)
	backend.FailSaves = true

	err = s.Mutate(func(d *models.Document) error {
		d.Units = append(d.Units, models.Unit{ID: "u1", Name: "kg"})
		return nil
	})
	require.ErrorIs(t, err, ErrSaveFailed)

	// La mutación quedó en memoria aunque no se persistió.
	s.View(func(d *models.Document) {
		assert.Len(t, d.Units, 1)
	})

	// Reload vuelve al último estado persistido.
	backend.FailSaves = false
	require.NoError(t, s.Reload())
	s.View(func(d *models.Document) {
		assert.Empty(t, d.Units)
	})
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "paladar.json")
	s, err := Open(NewFileBackend(path))
	require.NoError(t, err)

	require.NoError(t, s.Mutate(func(d *models.Document) error {
		d.Products = append(d.Products, models.Product{ID: "p1", Name: "Arroz", DefaultUnitID: "u1"})
		return nil
	}))

	s2, err := Open(NewFileBackend(path))
	require.NoError(t, err)
	s2.View(func(d *models.Document) {
		require.Len(t, d.Products, 1)
		assert.Equal(t, "Arroz", d.Products[0].Name)
	})
}

func TestImportReplacesState(t *testing.T) {
	s, err := Open(NewMemoryBackend())
	require.NoError(t, err)
	require.NoError(t, s.Mutate(func(d *models.Document) error {
		d.Units = append(d.Units, models.Unit{ID: "viejo", Name: "kg"})
		return nil
	}))

	incoming := models.NewDocument()
	incoming.Units = append(incoming.Units, models.Unit{ID: "nuevo", Name: "litro"})
	data, err := json.Marshal(incoming)
	require.NoError(t, err)

	require.NoError(t, s.Import(data))
	s.View(func(d *models.Document) {
		require.Len(t, d.Units, 1)
		assert.Equal(t, "nuevo", d.Units[0].ID)
	})
}

func TestImportValidatesStructure(t *testing.T) {
	s, err := Open(NewMemoryBackend())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Import([]byte("esto no es json")), ErrInvalidImport)
	// Sin la colección de transacciones el documento se rechaza.
	assert.ErrorIs(t, s.Import([]byte(`{"unidades":[],"productos":[],"configuracion":{}}`)), ErrInvalidImport)

	s.View(func(d *models.Document) {
		assert.Empty(t, d.Units)
	})
}

func TestExportIsValidDocument(t *testing.T) {
	s, err := Open(NewMemoryBackend())
	require.NoError(t, err)

	data, err := s.Export()
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"unidades", "productos", "transacciones", "configuracion"} {
		assert.Contains(t, raw, key)
	}
}

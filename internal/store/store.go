package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"paladar-backend/internal/config"
	"paladar-backend/internal/models"
)

// ErrSaveFailed: el guardado falló DESPUÉS de aplicar la mutación en memoria.
// El estado en memoria y el persistido quedan divergentes hasta el próximo
// Reload; quien llama decide si avisa al operador.
var ErrSaveFailed = errors.New("no se pudo guardar el documento")

// ErrInvalidImport: al documento importado le faltan colecciones obligatorias.
var ErrInvalidImport = errors.New("documento importado inválido")

// Store mantiene el documento en memoria y lo persiste entero en cada
// mutación: un solo escritor lógico, un solo guardado atómico por operación.
// Las lecturas sirven siempre la copia en memoria; los cambios hechos por
// fuera del proceso requieren un Reload explícito.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	doc     *models.Document
}

// Open carga el documento del backend, o crea uno nuevo si no existe.
func Open(backend Backend) (*Store, error) {
	s := &Store{backend: backend}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload descarta la copia en memoria y vuelve a leer del backend.
func (s *Store) Reload() error {
	data, found, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("cargando documento: %w", err)
	}
	doc := models.NewDocument()
	if found {
		if err := json.Unmarshal(data, doc); err != nil {
			return fmt.Errorf("documento corrupto: %w", err)
		}
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// View ejecuta fn con acceso de solo lectura al documento.
func (s *Store) View(fn func(d *models.Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.doc)
}

// Mutate aplica fn sobre el documento y, si fn no devolvió error, persiste el
// documento completo en un solo guardado. Si el guardado falla la mutación en
// memoria NO se revierte (ver ErrSaveFailed).
func (s *Store) Mutate(fn func(d *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.doc); err != nil {
		return err
	}
	return s.save()
}

func (s *Store) save() error {
	data, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("serializando documento: %w", err)
	}
	if err := s.backend.Save(data); err != nil {
		config.GetLogger().WithError(err).Error("fallo al guardar el documento")
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

// Export serializa el documento completo (para respaldo descargable).
func (s *Store) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(s.doc, "", "  ")
}

// Import valida estructuralmente el documento y reemplaza el estado entero,
// en memoria y persistido. No hay fusión: lo anterior se pierde.
func (s *Store) Import(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	for _, key := range []string{"unidades", "productos", "transacciones", "configuracion"} {
		if _, ok := raw[key]; !ok {
			return fmt.Errorf("%w: falta la colección %q", ErrInvalidImport, key)
		}
	}
	doc := models.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	return s.save()
}

package store

import (
	"errors"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Backend es el almacén opaco: carga y guarda el documento completo como un
// solo blob. found=false significa que todavía no existe documento.
type Backend interface {
	Load() (data []byte, found bool, err error)
	Save(data []byte) error
}

// -------------------------
// Backend en memoria (tests y modo demo)
// -------------------------

type MemoryBackend struct {
	data []byte
	// FailSaves fuerza fallos de guardado para probar la divergencia
	// memoria/disco descrita en el modelo de persistencia.
	FailSaves bool
}

func NewMemoryBackend() *MemoryBackend { return &MemoryBackend{} }

func (m *MemoryBackend) Load() ([]byte, bool, error) {
	if m.data == nil {
		return nil, false, nil
	}
	return m.data, true, nil
}

func (m *MemoryBackend) Save(data []byte) error {
	if m.FailSaves {
		return errors.New("guardado deshabilitado")
	}
	m.data = append([]byte(nil), data...)
	return nil
}

// -------------------------
// Backend de archivo JSON
// -------------------------

type FileBackend struct {
	Path string
}

func NewFileBackend(path string) *FileBackend { return &FileBackend{Path: path} }

func (f *FileBackend) Load() ([]byte, bool, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Save escribe a un archivo temporal y renombra, para que un corte a mitad de
// escritura no deje el documento corrupto.
func (f *FileBackend) Save(data []byte) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

// -------------------------
// Backend Postgres (GORM, una sola fila jsonb)
// -------------------------

// documentRow es la única tabla: el documento entero vive en Payload.
type documentRow struct {
	Key     string `gorm:"primaryKey;size:50"`
	Payload []byte `gorm:"type:jsonb;not null"`
}

func (documentRow) TableName() string { return "documentos" }

const documentKey = "paladar"

type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(dsn string) (*GormBackend, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, err
	}
	return &GormBackend{db: db}, nil
}

func (g *GormBackend) Load() ([]byte, bool, error) {
	var row documentRow
	err := g.db.First(&row, "key = ?", documentKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row.Payload, true, nil
}

func (g *GormBackend) Save(data []byte) error {
	row := documentRow{Key: documentKey, Payload: data}
	return g.db.Save(&row).Error
}

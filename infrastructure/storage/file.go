package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileStorage grava um arquivo JSON por dashboard em um diretório
type FileStorage struct {
	fs      afero.Fs
	baseDir string
}

func NewFileStorage(fs afero.Fs, baseDir string) *FileStorage {
	return &FileStorage{fs: fs, baseDir: baseDir}
}

// path codifica a chave em base64 url-safe: chaves distintas nunca dividem arquivo
// e nenhuma chave escapa de baseDir
func (s *FileStorage) path(key string) string {
	return filepath.Join(s.baseDir, base64.RawURLEncoding.EncodeToString([]byte(key))+".json")
}

func (s *FileStorage) Load(_ context.Context, key string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("erro ao ler snapshot %s: %w", key, err)
	}
	return data, nil
}

// Save escreve em um arquivo temporário e renomeia, evitando snapshots pela metade
func (s *FileStorage) Save(_ context.Context, key string, data []byte) error {
	if err := s.fs.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("erro ao criar diretório de layouts: %w", err)
	}

	target := s.path(key)
	tmp := target + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("erro ao escrever snapshot %s: %w", key, err)
	}

	if err := s.fs.Rename(tmp, target); err != nil {
		return fmt.Errorf("erro ao renomear snapshot %s: %w", key, err)
	}

	return nil
}

func (s *FileStorage) Delete(_ context.Context, key string) error {
	err := s.fs.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("erro ao remover snapshot %s: %w", key, err)
	}
	return nil
}

package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"noteful-server/internal/domain"

	"gopkg.in/yaml.v3"
)

// noteCodec encodes the whole note list as a single document.
type noteCodec interface {
	Marshal(notes []*domain.Note) ([]byte, error)
	Unmarshal(data []byte) ([]*domain.Note, error)
}

func codecForPath(path string) (noteCodec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return jsonCodec{}, nil
	case ".yaml", ".yml":
		return yamlCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported note file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

type jsonCodec struct{}

func (jsonCodec) Marshal(notes []*domain.Note) ([]byte, error) {
	if notes == nil {
		notes = []*domain.Note{}
	}
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (jsonCodec) Unmarshal(data []byte) ([]*domain.Note, error) {
	var notes []*domain.Note
	if len(bytes.TrimSpace(data)) == 0 {
		return notes, nil
	}
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

type yamlCodec struct{}

func (yamlCodec) Marshal(notes []*domain.Note) ([]byte, error) {
	if notes == nil {
		notes = []*domain.Note{}
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(notes); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte) ([]*domain.Note, error) {
	var notes []*domain.Note
	if err := yaml.Unmarshal(data, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

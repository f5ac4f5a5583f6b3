package cart

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// FileStore keeps the cart snapshot in a JSON file, the device equivalent of
// the browser client's localStorage key.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (map[int]int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int]int{}, nil
		}
		return nil, err
	}
	// Stored keyed by string to stay interchangeable with the JS client's
	// serialized cart.
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	items := make(map[int]int, len(raw))
	for k, v := range raw {
		pid, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		items[pid] = v
	}
	return items, nil
}

func (s *FileStore) Save(items map[int]int) error {
	raw := make(map[string]int, len(items))
	for pid, qty := range items {
		raw[strconv.Itoa(pid)] = qty
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

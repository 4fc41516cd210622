package memory

import (
	"sync"

	"github.com/Zelus7/fantasy-dvp-builder/internal/models"
)

// Repository caches the player directory between builds so scheduled runs
// don't re-download the full listing every time.
type Repository struct {
	directory *models.PlayerDirectory
	mu        sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) SaveDirectory(directory *models.PlayerDirectory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.directory = directory
}

func (r *Repository) GetDirectory() *models.PlayerDirectory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.directory
}

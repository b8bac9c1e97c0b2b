package client

import (
	"sort"
	"sync"

	"github.com/BerylCAtieno/legalease/internal/models"
)

// UploadStatus is one of StatusPending, StatusUploading, StatusSucceeded or
// StatusFailed. Transitions go pending -> uploading -> succeeded|failed.
type UploadStatus interface {
	isUploadStatus()
}

type StatusPending struct {
	FileName string
}

type StatusUploading struct {
	FileName string
	Progress int // percent, 0-100
}

type StatusSucceeded struct {
	FileName string
	Analysis *models.AnalysisResponse
}

type StatusFailed struct {
	FileName string
	Err      error
}

func (StatusPending) isUploadStatus()   {}
func (StatusUploading) isUploadStatus() {}
func (StatusSucceeded) isUploadStatus() {}
func (StatusFailed) isUploadStatus()    {}

// Terminal reports whether no further transition can follow s.
func Terminal(s UploadStatus) bool {
	switch s.(type) {
	case StatusSucceeded, StatusFailed:
		return true
	}
	return false
}

// Board tracks the latest status per file across concurrent uploads.
type Board struct {
	mu       sync.Mutex
	statuses map[string]UploadStatus
	onChange func(name string, s UploadStatus)
}

func NewBoard(onChange func(name string, s UploadStatus)) *Board {
	return &Board{
		statuses: make(map[string]UploadStatus),
		onChange: onChange,
	}
}

// Update records s for name. Updates after a terminal status are ignored.
func (b *Board) Update(name string, s UploadStatus) {
	b.mu.Lock()
	if prev, ok := b.statuses[name]; ok && Terminal(prev) {
		b.mu.Unlock()
		return
	}
	b.statuses[name] = s
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(name, s)
	}
}

// Reporter returns an upload callback bound to name.
func (b *Board) Reporter(name string) func(UploadStatus) {
	return func(s UploadStatus) {
		b.Update(name, s)
	}
}

func (b *Board) Status(name string) (UploadStatus, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.statuses[name]
	return s, ok
}

// Names returns the tracked file names in sorted order.
func (b *Board) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.statuses))
	for name := range b.statuses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

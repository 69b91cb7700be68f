// Package journal records revolution measurements reported by flap modules. The server side is a babyapi
// resource and Client posts to it. Recorder watches console output and posts every measurement it sees.
package journal

import (
	"errors"
	"net/http"
	"time"

	"github.com/calvinmclean/babyapi"
)

const basePath = "/measurements"

// Measurement is one calibration result for a module
type Measurement struct {
	babyapi.DefaultResource

	ModuleID   string    `json:"module_id"`
	Steps      int64     `json:"steps"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (m *Measurement) Bind(r *http.Request) error {
	err := m.DefaultResource.Bind(r)
	if err != nil {
		return err
	}

	switch r.Method {
	case http.MethodPost, http.MethodPut:
		if m.ModuleID == "" {
			return errors.New("missing required module_id field")
		}
		if m.Steps <= 0 {
			return errors.New("steps must be positive")
		}
	}

	return nil
}

// NewAPI creates the journal API with in-memory storage
func NewAPI() *babyapi.API[*Measurement] {
	return babyapi.NewAPI("Measurements", basePath, func() *Measurement { return &Measurement{} })
}

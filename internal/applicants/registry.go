package applicants

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/logger"

	"drawregistry/internal/models"
)

// Registry holds the applicants a draw selects from.
type Registry struct {
	mu         sync.RWMutex
	applicants []*models.Applicant
	byID       map[string]*models.Applicant
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		applicants: make([]*models.Applicant, 0),
		byID:       make(map[string]*models.Applicant),
	}
}

// Add registers an applicant. Adding an id twice keeps the first entry and
// reports false.
func (r *Registry) Add(id, name, country string) (bool, error) {
	if id == "" || name == "" {
		return false, errors.New("applicant id and name cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[id]; exists {
		return false, nil
	}
	a := &models.Applicant{ID: id, Name: name, Country: strings.ToUpper(country)}
	r.applicants = append(r.applicants, a)
	r.byID[id] = a
	return true, nil
}

// ImportCSV reads id,name,country rows. Malformed rows are skipped. It returns
// the number of applicants added.
func (r *Registry) ImportCSV(src io.Reader) (int, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	added := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return added, fmt.Errorf("reading applicant CSV: %w", err)
		}
		if len(record) != 3 {
			logger.Infof("Skipping malformed applicant CSV record: %v", record)
			continue
		}
		ok, err := r.Add(strings.TrimSpace(record[0]), strings.TrimSpace(record[1]), strings.TrimSpace(record[2]))
		if err != nil {
			logger.Infof("Skipping applicant CSV record %v: %v", record, err)
			continue
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// List returns the applicants in registration order.
func (r *Registry) List() []models.Applicant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Applicant, 0, len(r.applicants))
	for _, a := range r.applicants {
		out = append(out, *a)
	}
	return out
}

// GetTotalApplicants returns the number of registered applicants.
func (r *Registry) GetTotalApplicants() (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.applicants)), nil
}

// GetApplicantsByCountry returns the ids of applicants from a country code.
func (r *Registry) GetApplicantsByCountry(country []byte) ([]models.Principal, error) {
	code := strings.ToUpper(string(country))
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Principal
	for _, a := range r.applicants {
		if a.Country == code {
			out = append(out, models.Principal(a.ID))
		}
	}
	return out, nil
}

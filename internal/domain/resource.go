package domain

import (
	"sort"
	"time"
)

type ResourceType string

const (
	ResourceTypeCompute     ResourceType = "COMPUTE"
	ResourceTypeAccelerator ResourceType = "ACCELERATOR"
	ResourceTypeStorage     ResourceType = "STORAGE"
)

type ResourceStatus string

const (
	ResourceStatusIdle  ResourceStatus = "IDLE"
	ResourceStatusInUse ResourceStatus = "IN_USE"
)

// Resource is a single exclusive rentable unit. There is no capacity
// pooling: at most one rental holds a resource at a time.
type Resource struct {
	ID                string            `json:"id"`
	Type              ResourceType      `json:"type"`
	Name              string            `json:"name"`
	Specs             map[string]string `json:"specs"`
	PricePerHourCents int64             `json:"price_per_hour_cents"`
	Status            ResourceStatus    `json:"status"`
	CreatedOn         time.Time         `json:"created_on"`
}

// SpecKeys returns the spec keys in sorted order so listings render
// deterministically.
func (r *Resource) SpecKeys() []string {
	keys := make([]string, 0, len(r.Specs))
	for k := range r.Specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

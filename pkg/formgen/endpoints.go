package formgen

import (
	"github.com/goliatone/go-formdescriptor/pkg/descriptor"
	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

// initEndpoints copies the class-level list-of-values endpoints of model.
func initEndpoints(model *schema.Model) []descriptor.EndpointDescriptor {
	if model == nil || len(model.Endpoints) == 0 {
		return nil
	}
	endpoints := make([]descriptor.EndpointDescriptor, 0, len(model.Endpoints))
	for _, endpoint := range model.Endpoints {
		endpoints = append(endpoints, descriptor.EndpointDescriptor{Key: endpoint.Key, URL: endpoint.URL})
	}
	return endpoints
}

// Copyright 2024 The MAL Engine Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

// EntityKind identifies which of the five observability scopes a MeterEntity
// is bound to.
type EntityKind int

const (
	EntityService EntityKind = iota
	EntityInstance
	EntityEndpoint
	EntityServiceRelation
	EntityProcessRelation
)

func (k EntityKind) String() string {
	switch k {
	case EntityService:
		return "Service"
	case EntityInstance:
		return "Instance"
	case EntityEndpoint:
		return "Endpoint"
	case EntityServiceRelation:
		return "ServiceRelation"
	case EntityProcessRelation:
		return "ProcessRelation"
	default:
		return "Unknown"
	}
}

// MeterEntity is a tagged union over the five scope kinds. It is value-typed
// and freely copied; its identity is the full tuple of fields, so two
// entities built with identical component values compare equal and collapse
// under downstream storage the same way (comparable struct, usable as a map
// key directly).
type MeterEntity struct {
	Kind EntityKind

	// Service
	Layer       string
	ServiceName string

	// Instance (also uses Layer, ServiceName)
	InstanceName string

	// Endpoint (also uses Layer, ServiceName)
	EndpointName string

	// ServiceRelation
	DetectPoint   string
	SourceLayer   string
	SourceService string
	DestLayer     string
	DestService   string

	// ProcessRelation
	ComponentID     string
	SourceProcessID string
	DestProcessID   string
	Side            string
}

// NewServiceEntity builds a Service entity.
func NewServiceEntity(layer, serviceName string) MeterEntity {
	return MeterEntity{Kind: EntityService, Layer: layer, ServiceName: serviceName}
}

// NewInstanceEntity builds an Instance entity.
func NewInstanceEntity(layer, serviceName, instanceName string) MeterEntity {
	return MeterEntity{Kind: EntityInstance, Layer: layer, ServiceName: serviceName, InstanceName: instanceName}
}

// NewEndpointEntity builds an Endpoint entity.
func NewEndpointEntity(layer, serviceName, endpointName string) MeterEntity {
	return MeterEntity{Kind: EntityEndpoint, Layer: layer, ServiceName: serviceName, EndpointName: endpointName}
}

// NewServiceRelationEntity builds a ServiceRelation entity.
func NewServiceRelationEntity(detectPoint, srcLayer, srcService, destLayer, destService string) MeterEntity {
	return MeterEntity{
		Kind:          EntityServiceRelation,
		DetectPoint:   detectPoint,
		SourceLayer:   srcLayer,
		SourceService: srcService,
		DestLayer:     destLayer,
		DestService:   destService,
	}
}

// NewProcessRelationEntity builds a ProcessRelation entity.
func NewProcessRelationEntity(serviceName, instanceName, componentID, srcProcID, destProcID, side string) MeterEntity {
	return MeterEntity{
		Kind:            EntityProcessRelation,
		ServiceName:     serviceName,
		InstanceName:    instanceName,
		ComponentID:     componentID,
		SourceProcessID: srcProcID,
		DestProcessID:   destProcID,
		Side:            side,
	}
}

// Valid reports whether every component required by the entity's Kind is
// non-empty. Incomplete entities must never be emitted.
func (e MeterEntity) Valid() bool {
	switch e.Kind {
	case EntityService:
		return e.ServiceName != ""
	case EntityInstance:
		return e.ServiceName != "" && e.InstanceName != ""
	case EntityEndpoint:
		return e.ServiceName != "" && e.EndpointName != ""
	case EntityServiceRelation:
		return e.SourceService != "" && e.DestService != ""
	case EntityProcessRelation:
		return e.SourceProcessID != "" && e.DestProcessID != ""
	default:
		return false
	}
}
